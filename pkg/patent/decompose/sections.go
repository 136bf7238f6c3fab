package decompose

import (
	"strings"

	"github.com/patentflow/patentflow/pkg/patent/entity"
	"github.com/patentflow/patentflow/pkg/patent/fragment"
)

// The bulk files delimit description sections with processing-instruction
// pairs: <?BRFSUM ... end="lead"?> ... <?BRFSUM ... end="tail"?>. The same
// scheme marks RELAPP, DETDESC and GOVINT blocks.
const (
	piBriefSummary = "BRFSUM"
	piRelApp       = "RELAPP"
	piDetailDesc   = "DETDESC"
	piGovInt       = "GOVINT"
)

// descriptionSections carves the grant description into its marked blocks:
// one brf_sum_text row, one detail_desc_text row, one government_interest
// row, and one rel_app_text row per heading/paragraph.
func (g *Grant) descriptionSections(frag *fragment.Node, p *entity.Patent) ([]entity.TextSection, error) {
	desc := frag.Find("description")
	if desc == nil {
		return nil, nil
	}
	sections := splitSections(desc)
	var rows []entity.TextSection

	if els := sections[piBriefSummary]; len(els) > 0 {
		rows = append(rows, entity.TextSection{
			DocID:    p.ID,
			AppID:    p.AppID,
			Relation: entity.RelBriefSummary,
			Text:     joinText(els),
		})
	}
	if els := sections[piDetailDesc]; len(els) > 0 {
		rows = append(rows, entity.TextSection{
			DocID:    p.ID,
			AppID:    p.AppID,
			Relation: entity.RelDetailDesc,
			Text:     joinText(els),
		})
	}
	if els := sections[piGovInt]; len(els) > 0 {
		rows = append(rows, entity.TextSection{
			DocID:    p.ID,
			AppID:    p.AppID,
			Relation: entity.RelGovernmentInterest,
			Text:     joinText(els),
		})
	}
	for seq, el := range sections[piRelApp] {
		rows = append(rows, entity.TextSection{
			DocID:    p.ID,
			AppID:    p.AppID,
			Relation: entity.RelRelAppText,
			Text:     el.AllText(),
			Sequence: seq,
		})
	}
	return rows, nil
}

// splitSections walks the description's direct children and groups the
// elements between each lead/tail marker pair under the marker target.
func splitSections(desc *fragment.Node) map[string][]*fragment.Node {
	sections := make(map[string][]*fragment.Node)
	current := ""
	for _, c := range desc.Children {
		if c.Kind == fragment.ProcInst {
			switch {
			case strings.Contains(c.Text, `end="lead"`):
				current = c.Name
			case strings.Contains(c.Text, `end="tail"`):
				current = ""
			}
			continue
		}
		if current != "" {
			sections[current] = append(sections[current], c)
		}
	}
	return sections
}

func joinText(els []*fragment.Node) string {
	parts := make([]string, 0, len(els))
	for _, el := range els {
		if t := el.AllText(); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, " ")
}
