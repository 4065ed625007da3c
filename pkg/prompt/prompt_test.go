package prompt

import (
	"errors"
	"reflect"
	"testing"
)

func TestSystem_AllCommands(t *testing.T) {
	for _, command := range Commands() {
		text, err := System(command)
		if err != nil {
			t.Errorf("System(%q) error = %v", command, err)
			continue
		}
		if text == "" {
			t.Errorf("System(%q) returned empty prompt", command)
		}
	}
}

func TestSystem_UnknownCommand(t *testing.T) {
	_, err := System("deploy")
	if !errors.Is(err, ErrUnknownCommand) {
		t.Errorf("System(deploy) error = %v, want ErrUnknownCommand", err)
	}
}

func TestCommands(t *testing.T) {
	want := []string{"code", "plan", "query", "review"}
	if got := Commands(); !reflect.DeepEqual(got, want) {
		t.Errorf("Commands() = %v, want %v", got, want)
	}
}
