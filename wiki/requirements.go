package wiki

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/osrs-reldo/taskscrape/quest"
	"golang.org/x/net/html"
)

// ParseRequirements reads the quest details table of a rendered quest page.
// Skills come from the "Requirements" row, quest links from the "Quests" row
// when present and from the "Requirements" row otherwise. Optional entries
// are ignored.
func ParseRequirements(page []byte, ids *QuestIDs) (quest.Requirements, error) {
	document, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		return quest.Requirements{}, err
	}

	p := requirementParser{ids: ids, skills: quest.Skills{}, quests: []int{}}

	requirementRow := detailsRow(document, "Requirements")
	questRow := detailsRow(document, "Quests")
	switch {
	case questRow != nil:
		if requirementRow != nil {
			p.parseCell(requirementRow, false)
		}
		p.parseCell(questRow, true)
	case requirementRow != nil:
		p.parseCell(requirementRow, true)
	}

	return quest.Requirements{Skills: p.skills, Quests: dedupe(p.quests)}, nil
}

type requirementParser struct {
	ids    *QuestIDs
	skills quest.Skills
	quests []int
}

func detailsRow(document *goquery.Document, header string) *goquery.Selection {
	row := document.Find("th").FilterFunction(func(_ int, th *goquery.Selection) bool {
		return strings.EqualFold(strings.TrimSpace(th.Text()), header)
	}).First().Closest("tr")
	if row.Length() == 0 {
		return nil
	}
	return row
}

func (p *requirementParser) parseCell(row *goquery.Selection, includeQuests bool) {
	cell := row.Find("td").First()
	if cell.Length() == 0 {
		return
	}

	listItems := cell.Find("li")
	if listItems.Length() == 0 {
		p.parseText(cell)
		if includeQuests {
			p.questLinks(cell)
		}
		return
	}

	p.skillBadges(cell)
	items := cell.ChildrenFiltered("ul").ChildrenFiltered("li")
	if items.Length() == 0 {
		items = listItems
	}
	items.Each(func(_ int, item *goquery.Selection) {
		text := strings.TrimSpace(item.Text())
		if isOptional(text, item) {
			return
		}
		p.skillText(text)
	})
	if includeQuests {
		p.questLinksFromList(cell)
	}
}

// parseText handles cells written as plain lines instead of a list. Badges
// are always read; the text lines are skipped once the cell marks anything
// optional, since a line cannot be tied back to its span.
func (p *requirementParser) parseText(cell *goquery.Selection) {
	p.skillBadges(cell)
	if cell.Find(".optional").Length() > 0 {
		return
	}
	for _, line := range strings.Split(cell.Text(), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || isOptional(line, nil) {
			continue
		}
		p.skillText(line)
	}
}

// skillBadges reads the wiki's skill clickpic markup, skipping badges that
// sit inside an optional list item.
func (p *requirementParser) skillBadges(node *goquery.Selection) {
	node.Find(".scp[data-skill][data-level]").Each(func(_ int, badge *goquery.Selection) {
		optional := false
		badge.ParentsUntilSelection(node).Filter("li").EachWithBreak(func(_ int, item *goquery.Selection) bool {
			optional = isOptional(item.Text(), item)
			return !optional
		})
		if optional {
			return
		}

		skill := strings.TrimSpace(badge.AttrOr("data-skill", ""))
		level, err := strconv.Atoi(strings.TrimSpace(badge.AttrOr("data-level", "")))
		if skill == "" || err != nil || !isSkill(skill) {
			return
		}
		p.skills.Raise(strings.ToUpper(skill), level)
	})
}

func (p *requirementParser) skillText(text string) {
	for _, match := range skillTextPattern.FindAllStringSubmatch(text, -1) {
		level, err := strconv.Atoi(match[1])
		if err != nil {
			continue
		}
		p.skills.Raise(strings.ToUpper(match[2]), level)
	}
}

// questLinksFromList prefers the nested list under a "following quests"
// item, taking the first link of each entry. Without such an item it reads
// the links of each top level item, ignoring their sublists.
func (p *requirementParser) questLinksFromList(cell *goquery.Selection) {
	markers := cell.Find("li").FilterFunction(func(_ int, item *goquery.Selection) bool {
		return strings.Contains(strings.ToLower(item.Text()), "following quests")
	})
	if markers.Length() > 0 {
		markers.Each(func(_ int, marker *goquery.Selection) {
			list := marker.Find("ul").First()
			if list.Length() == 0 {
				p.directQuestLinks(marker)
				return
			}
			for _, item := range list.ChildrenFiltered("li").Nodes {
				if link := goquery.NewDocumentFromNode(item).Find("a").First(); link.Length() > 0 {
					p.addQuest(linkTitle(link.Nodes[0]))
				}
			}
		})
		return
	}

	top := cell.ChildrenFiltered("ul").ChildrenFiltered("li")
	if top.Length() > 0 {
		top.Each(func(_ int, item *goquery.Selection) {
			p.directQuestLinks(item)
		})
		return
	}
	p.questLinks(cell)
}

func (p *requirementParser) directQuestLinks(item *goquery.Selection) {
	clone := item.Clone()
	clone.Find("ul").Remove()
	p.questLinks(clone)
}

func (p *requirementParser) questLinks(node *goquery.Selection) {
	for _, link := range node.Find("a").Nodes {
		p.addQuest(linkTitle(link))
	}
}

func (p *requirementParser) addQuest(title string) {
	title = strings.TrimSpace(title)
	if title == "" {
		return
	}
	if id, ok := p.ids.Resolve(title); ok {
		p.quests = append(p.quests, id)
	}
}

// linkTitle returns the title attribute of an anchor, falling back to its
// text.
func linkTitle(link *html.Node) string {
	for _, attr := range link.Attr {
		if attr.Key == "title" && attr.Val != "" {
			return attr.Val
		}
	}
	return goquery.NewDocumentFromNode(link).Text()
}

func isOptional(text string, node *goquery.Selection) bool {
	if strings.Contains(strings.ToLower(text), "optional") {
		return true
	}
	return node != nil && node.Find(".optional").Length() > 0
}

func dedupe(ids []int) []int {
	seen := make(map[int]struct{}, len(ids))
	out := make([]int, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
