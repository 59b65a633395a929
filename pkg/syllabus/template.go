package syllabus

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/mattsolo1/grove-syllabus/pkg/models"
	"github.com/mattsolo1/grove-syllabus/pkg/tree"
)

// outlineGroup is a heading of the starter outline and the sections under it. A
// group without sections is a single top-level section.
type outlineGroup struct {
	title    string
	sections []string
}

// starterOutline is the outline every new syllabus overview starts with.
var starterOutline = []outlineGroup{
	{title: "Course Overview"},
	{title: "Instructor Information", sections: []string{"Instructor Details", "Office Hours", "Contact Information"}},
	{title: "Course Basics", sections: []string{"Meeting Day/Time", "Course Description", "Prerequisites/Co-requisites", "Credits", "Audience"}},
	{title: "Values & Principles", sections: []string{"Values & Principles", "Learning Objectives"}},
	{title: "Course Requirements", sections: []string{"Assessment Methods"}},
	{title: "Policies", sections: []string{"Attendance Policy", "Late Work Policy", "Academic Integrity"}},
	{title: "Schedule", sections: []string{"Schedule Overview"}},
}

// Scaffold builds a starter syllabus: an overview document with a standard outline
// and one folder per week holding a lecture and an assignment. newID defaults to
// random UUIDs.
func Scaffold(title string, weeks int, newID func() string) *models.Syllabus {
	if newID == nil {
		newID = uuid.NewString
	}
	s := models.NewSyllabus(title)

	overview := tree.NewNode(newID(), "Course Syllabus", tree.KindFile,
		models.DocMeta{Type: models.DocSyllabus, Status: models.StatusDraft})
	var groups []*tree.Node[models.SectionMeta]
	for _, g := range starterOutline {
		if len(g.sections) == 0 {
			groups = append(groups, tree.NewNode(newID(), g.title, tree.KindPlain, models.SectionMeta{}))
			continue
		}
		group := tree.NewNode(newID(), g.title, tree.KindFolder, models.SectionMeta{})
		for _, h := range g.sections {
			group.Children = append(group.Children, tree.NewNode(newID(), h, tree.KindPlain, models.SectionMeta{}))
		}
		groups = append(groups, group)
	}
	s.Outlines[overview.ID] = tree.New(groups...)

	roots := []*tree.Node[models.DocMeta]{overview}
	if weeks > 0 {
		schedule := tree.NewNode(newID(), "Schedule", tree.KindFolder, models.DocMeta{})
		for w := 1; w <= weeks; w++ {
			week := tree.NewNode(newID(), fmt.Sprintf("Week %d", w), tree.KindFolder, models.DocMeta{})
			week.Children = []*tree.Node[models.DocMeta]{
				tree.NewNode(newID(), "Lecture", tree.KindFile, models.DocMeta{Type: models.DocLesson, Status: models.StatusDraft}),
				tree.NewNode(newID(), "Assignment", tree.KindFile, models.DocMeta{Type: models.DocRubric, Status: models.StatusDraft}),
			}
			schedule.Children = append(schedule.Children, week)
		}
		roots = append(roots, schedule)
	}
	s.Documents = tree.New(roots...)
	return s
}
