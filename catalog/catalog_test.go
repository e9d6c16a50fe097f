package catalog_test

import (
	"errors"
	"testing"

	"github.com/xmmersia/hubcore/catalog"
)

func testActions() []catalog.Action {
	return []catalog.Action{
		{ID: "submit_work", Label: "Submit Work", Agent: "lumiere", Skill: "check_answers", Precondition: "le_veilleur.check_pending"},
		{ID: "generate_worksheet", Label: "Generate Worksheet", Agent: "gaston", Skill: "request_worksheet", Primary: true},
		{ID: "view_progress", Label: "View Progress", Agent: "gaston", Skill: "get_progress", Precondition: "has_profile"},
	}
}

func TestCatalog_Resolve(t *testing.T) {
	c, err := catalog.New(testActions())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	action, err := c.Resolve("submit_work")
	if err != nil {
		t.Fatalf("Resolve(submit_work) error = %v", err)
	}
	if action.Agent != "lumiere" || action.Skill != "check_answers" {
		t.Errorf("Resolve(submit_work) = %s.%s, want lumiere.check_answers", action.Agent, action.Skill)
	}

	_, err = c.Resolve("no_such_action")
	if !errors.Is(err, catalog.ErrUnknownAction) {
		t.Errorf("Resolve(no_such_action) error = %v, want ErrUnknownAction", err)
	}
}

func TestCatalog_ListPreservesOrder(t *testing.T) {
	c, err := catalog.New(testActions())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	list := c.List()
	want := []string{"submit_work", "generate_worksheet", "view_progress"}
	if len(list) != len(want) {
		t.Fatalf("List() length = %d, want %d", len(list), len(want))
	}
	for i, id := range want {
		if list[i].ID != id {
			t.Errorf("List()[%d].ID = %s, want %s", i, list[i].ID, id)
		}
	}

	// Mutating the returned slice must not affect the catalog.
	list[0].ID = "mutated"
	if action, _ := c.Resolve("submit_work"); action.ID != "submit_work" {
		t.Error("List() must return a copy")
	}
}

func TestCatalog_DuplicateID(t *testing.T) {
	actions := testActions()
	actions = append(actions, catalog.Action{ID: "submit_work", Agent: "gaston", Skill: "chatbot"})

	_, err := catalog.New(actions)
	if !errors.Is(err, catalog.ErrDuplicateAction) {
		t.Errorf("New() error = %v, want ErrDuplicateAction", err)
	}
}

func TestCatalog_EmptyID(t *testing.T) {
	_, err := catalog.New([]catalog.Action{{Agent: "gaston", Skill: "chatbot"}})
	if !errors.Is(err, catalog.ErrEmptyActionID) {
		t.Errorf("New() error = %v, want ErrEmptyActionID", err)
	}
}

func TestAction_PreconditionTarget(t *testing.T) {
	tests := []struct {
		name      string
		action    catalog.Action
		wantAgent string
		wantSkill string
		wantOK    bool
	}{
		{
			"qualified precondition",
			catalog.Action{Agent: "lumiere", Precondition: "le_veilleur.check_pending"},
			"le_veilleur", "check_pending", true,
		},
		{
			"bare precondition targets own agent",
			catalog.Action{Agent: "gaston", Precondition: "has_profile"},
			"gaston", "has_profile", true,
		},
		{
			"no precondition",
			catalog.Action{Agent: "gaston"},
			"", "", false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			agent, skill, ok := tt.action.PreconditionTarget()
			if agent != tt.wantAgent || skill != tt.wantSkill || ok != tt.wantOK {
				t.Errorf("PreconditionTarget() = (%s, %s, %v), want (%s, %s, %v)",
					agent, skill, ok, tt.wantAgent, tt.wantSkill, tt.wantOK)
			}
		})
	}
}
