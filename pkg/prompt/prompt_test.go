package prompt

import "testing"

var yesNo = []Option{
	{Key: "y", Label: "yes"},
	{Key: "n", Label: "no"},
}

func TestScripted_ReplaysAnswers(t *testing.T) {
	s := &Scripted{Answers: []string{"n", "y"}}

	got, err := s.Choose("First?", yesNo, "y")
	if err != nil || got != "n" {
		t.Fatalf("first answer = %q, %v", got, err)
	}
	got, err = s.Choose("Second?", yesNo, "y")
	if err != nil || got != "y" {
		t.Fatalf("second answer = %q, %v", got, err)
	}
	if len(s.Questions) != 2 || s.Questions[0] != "First?" || s.Questions[1] != "Second?" {
		t.Errorf("questions = %v", s.Questions)
	}
}

func TestScripted_ExhaustedReturnsDefault(t *testing.T) {
	s := &Scripted{Answers: []string{"n"}}
	s.Choose("First?", yesNo, "y")

	got, err := s.Choose("Second?", yesNo, "y")
	if err != nil || got != "y" {
		t.Errorf("exhausted answer = %q, %v, want default", got, err)
	}
}

func TestScripted_EmptyAnswerIsDefault(t *testing.T) {
	s := &Scripted{Answers: []string{""}}

	got, err := s.Choose("Proceed?", yesNo, "n")
	if err != nil || got != "n" {
		t.Errorf("empty answer = %q, %v, want default", got, err)
	}
}

func TestScripted_ZeroValue(t *testing.T) {
	var s Scripted

	got, err := s.Choose("Proceed?", yesNo, "p")
	if err != nil || got != "p" {
		t.Errorf("zero value answer = %q, %v", got, err)
	}
}
