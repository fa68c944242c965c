package inputval

import "testing"

type planInput struct {
	Methodology string `validate:"required" label:"metodologia"`
	Period      string `validate:"required" label:"periodo"`
	Grade       string // no tag, never validated
	Note        string `validate:"max=5" label:"note"`
}

func TestValidate_AllPresent(t *testing.T) {
	res := Validate(planInput{Methodology: "Expositiva", Period: "01/09 a 15/09"})
	if res.HasErrors() {
		t.Fatalf("expected no errors, got %v", res.Errors)
	}
	if res.First() != "" {
		t.Errorf("First() = %q, want empty", res.First())
	}
}

func TestValidate_MissingFieldNamesLabel(t *testing.T) {
	res := Validate(planInput{Methodology: "Expositiva"})
	if !res.HasErrors() {
		t.Fatal("expected errors for missing periodo")
	}
	want := "Campo obrigatório não preenchido: periodo"
	if res.First() != want {
		t.Errorf("First() = %q, want %q", res.First(), want)
	}
}

func TestValidate_BlankAfterTrimIsMissing(t *testing.T) {
	res := Validate(planInput{Methodology: "   ", Period: "x"})
	if !res.HasErrors() {
		t.Fatal("expected whitespace-only field to fail required")
	}
	if res.Errors[0].Field != "Methodology" {
		t.Errorf("failed field = %q, want Methodology", res.Errors[0].Field)
	}
}

func TestValidate_ErrorsInFieldOrder(t *testing.T) {
	res := Validate(planInput{})
	if len(res.Errors) != 2 {
		t.Fatalf("got %d errors, want 2", len(res.Errors))
	}
	if res.Errors[0].Label != "metodologia" || res.Errors[1].Label != "periodo" {
		t.Errorf("labels = %q, %q; want metodologia, periodo", res.Errors[0].Label, res.Errors[1].Label)
	}
}

func TestValidate_Max(t *testing.T) {
	res := Validate(planInput{Methodology: "a", Period: "b", Note: "toolong"})
	if !res.HasErrors() {
		t.Fatal("expected max violation")
	}
	if res.Errors[0].Label != "note" {
		t.Errorf("failed label = %q, want note", res.Errors[0].Label)
	}
	want := "note deve ter no máximo 5 caracteres."
	if res.First() != want {
		t.Errorf("First() = %q, want %q", res.First(), want)
	}
}

func TestValidate_PointerInput(t *testing.T) {
	res := Validate(&planInput{Methodology: "a", Period: "b"})
	if res.HasErrors() {
		t.Fatalf("expected no errors for pointer input, got %v", res.Errors)
	}
}

func TestValidate_Missing(t *testing.T) {
	res := Validate(planInput{})
	got := res.Missing()
	if len(got) != 2 || got[0] != "metodologia" || got[1] != "periodo" {
		t.Errorf("Missing() = %v", got)
	}
}
