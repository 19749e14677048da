package outline

// Labeled pairs a classified block with its label, in reading order.
type Labeled struct {
	Level Level
	Text  string
	Page  int
	Order int
}

// Assemble enforces hierarchy consistency over labeled blocks and returns
// the corrected outline. It is a pure transformation: the input is not
// modified, so concurrent document runs never share repair state.
//
// Repair rule: an H3 with no H2 seen since the last H1 is demoted to H2,
// never promoted — an unanchored deep heading is more likely a
// mis-detected sub-level than a top-level one. Consecutive headings with
// identical text and level within pageWindow pages collapse into one
// node, which absorbs multi-line rendering artifacts.
func Assemble(labeled []Labeled, pageWindow int) []HeadingNode {
	if pageWindow < 0 {
		pageWindow = 0
	}

	var nodes []HeadingNode
	h2SinceH1 := false

	for _, lb := range labeled {
		level := lb.Level
		switch level {
		case Body, Title:
			continue
		case H1:
			h2SinceH1 = false
		case H2:
			h2SinceH1 = true
		case H3:
			if !h2SinceH1 {
				level = H2
				h2SinceH1 = true
			}
		}

		if len(nodes) > 0 {
			prev := nodes[len(nodes)-1]
			if prev.Text == lb.Text && prev.Level == level && lb.Page-prev.Page <= pageWindow {
				continue
			}
		}

		nodes = append(nodes, HeadingNode{
			Level: level,
			Text:  lb.Text,
			Page:  lb.Page,
			Order: lb.Order,
		})
	}

	return nodes
}
