package pipeline

import "fmt"

// taskProgress counts the tasks under one section heading.
type taskProgress struct {
	done  int
	total int
}

func (p taskProgress) badge() string {
	return fmt.Sprintf(` <span class="task-progress" data-done="%d" data-total="%d">%d/%d</span>`,
		p.done, p.total, p.done, p.total)
}

// computeProgress counts checked and total tasks under every h2 and h3, up to
// the next heading of the same or a higher level. Headings without tasks are
// left out. Keys are preprocessed line indexes.
func computeProgress(t *Text) map[int]taskProgress {
	mask := t.fenceMask()

	type heading struct {
		index int
		level int
	}
	var headings []heading
	for i, line := range t.Lines {
		if mask[i] {
			continue
		}
		if m := headingPattern.FindStringSubmatch(line); m != nil {
			headings = append(headings, heading{index: i, level: len(m[1])})
		}
	}

	progress := make(map[int]taskProgress)
	for h, head := range headings {
		if head.level != 2 && head.level != 3 {
			continue
		}
		end := t.Len()
		for _, next := range headings[h+1:] {
			if next.level <= head.level {
				end = next.index
				break
			}
		}

		var p taskProgress
		for i := head.index + 1; i < end; i++ {
			if mask[i] {
				continue
			}
			m := unorderedPattern.FindStringSubmatch(t.Lines[i])
			if m == nil {
				continue
			}
			task := taskPattern.FindStringSubmatch(m[2])
			if task == nil {
				continue
			}
			p.total++
			if task[1] != " " {
				p.done++
			}
		}
		if p.total > 0 {
			progress[head.index] = p
		}
	}
	return progress
}
