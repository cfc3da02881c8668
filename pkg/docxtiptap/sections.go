package docxtiptap

import "github.com/google/uuid"

// groupSections partitions a flat block list into nested sections. Each
// heading paragraph opens a section at its level and closes any open section
// at the same or a deeper level. Blocks before the first heading stay at the
// top level.
func groupSections(blocks []Block) []Block {
	var out []Block
	var stack []*Section

	for _, block := range blocks {
		if para, ok := block.(*Paragraph); ok && para.HeadingLevel > 0 {
			section := &Section{
				ID:          uuid.NewString(),
				OriginalRef: para.NumberingLabel,
				Title:       para.Text(),
				Level:       para.HeadingLevel,
			}
			for len(stack) > 0 && stack[len(stack)-1].Level >= section.Level {
				stack = stack[:len(stack)-1]
			}
			if len(stack) == 0 {
				out = append(out, section)
			} else {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, section)
			}
			stack = append(stack, section)
			continue
		}

		if len(stack) == 0 {
			out = append(out, block)
			continue
		}
		top := stack[len(stack)-1]
		top.Content = append(top.Content, block)
	}

	return out
}
