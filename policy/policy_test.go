package policy_test

import (
	"testing"

	"github.com/xmmersia/hubcore/policy"
)

func testPolicy() *policy.Policy {
	return policy.New(map[string]policy.Exposure{
		"lumiere": {
			Exposed:  []string{"check_answers"},
			Hidden:   []string{"rubric_grade", "annotate_pdf"},
			Internal: []string{"ocr_extract"},
		},
		"le_veilleur": {
			Internal: []string{"check_pending", "log_result"},
		},
	})
}

func TestPolicy_UserInvokable(t *testing.T) {
	p := testPolicy()

	tests := []struct {
		name  string
		agent string
		skill string
		want  policy.Decision
	}{
		{"exposed skill", "lumiere", "check_answers", policy.DecisionAllowed},
		{"hidden skill", "lumiere", "rubric_grade", policy.DecisionDenied},
		{"internal skill", "lumiere", "ocr_extract", policy.DecisionDenied},
		{"undeclared skill", "lumiere", "no_such_skill", policy.DecisionDenied},
		{"internal-only agent", "le_veilleur", "check_pending", policy.DecisionDenied},
		{"unknown agent", "gaston", "chatbot", policy.DecisionUnknownAgent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := p.UserInvokable(tt.agent, tt.skill)
			if got != tt.want {
				t.Errorf("UserInvokable(%s, %s) = %v, want %v", tt.agent, tt.skill, got, tt.want)
			}
		})
	}
}

func TestPolicy_HubInvokable(t *testing.T) {
	p := testPolicy()

	tests := []struct {
		name  string
		agent string
		skill string
		want  policy.Decision
	}{
		{"exposed skill", "lumiere", "check_answers", policy.DecisionAllowed},
		{"internal skill", "lumiere", "ocr_extract", policy.DecisionAllowed},
		{"hidden-only skill", "lumiere", "rubric_grade", policy.DecisionDenied},
		{"internal-only agent", "le_veilleur", "check_pending", policy.DecisionAllowed},
		{"unknown agent", "gaston", "chatbot", policy.DecisionUnknownAgent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := p.HubInvokable(tt.agent, tt.skill)
			if got != tt.want {
				t.Errorf("HubInvokable(%s, %s) = %v, want %v", tt.agent, tt.skill, got, tt.want)
			}
		})
	}
}

func TestPolicy_UnknownAgentNotConflatedWithDenied(t *testing.T) {
	p := testPolicy()

	unknown := p.UserInvokable("gaston", "check_answers")
	denied := p.UserInvokable("lumiere", "rubric_grade")

	if unknown == denied {
		t.Fatalf("unknown-agent decision %v must differ from denied decision %v", unknown, denied)
	}
	if unknown.Allowed() || denied.Allowed() {
		t.Error("neither unknown-agent nor denied may report Allowed()")
	}
}

func TestPolicy_Describe(t *testing.T) {
	p := testPolicy()

	e, ok := p.Describe("lumiere")
	if !ok {
		t.Fatal("Describe(lumiere) ok = false, want true")
	}
	if len(e.Exposed) != 1 || e.Exposed[0] != "check_answers" {
		t.Errorf("Exposed = %v, want [check_answers]", e.Exposed)
	}
	// Sorted output regardless of declaration order.
	if len(e.Hidden) != 2 || e.Hidden[0] != "annotate_pdf" || e.Hidden[1] != "rubric_grade" {
		t.Errorf("Hidden = %v, want [annotate_pdf rubric_grade]", e.Hidden)
	}

	if _, ok := p.Describe("gaston"); ok {
		t.Error("Describe(gaston) ok = true, want false for unknown agent")
	}
}

func TestPolicy_Agents(t *testing.T) {
	agents := testPolicy().Agents()
	if len(agents) != 2 || agents[0] != "le_veilleur" || agents[1] != "lumiere" {
		t.Errorf("Agents() = %v, want [le_veilleur lumiere]", agents)
	}
}
