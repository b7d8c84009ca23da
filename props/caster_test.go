package props_test

import (
	"errors"
	"testing"

	"github.com/eak1mov/go-libtmx/props"
	"github.com/google/go-cmp/cmp"
)

func TestCast(t *testing.T) {
	cases := []struct {
		Name     string
		TypeName string
		Raw      string
		Want     any
	}{
		{Name: "BoolOne", TypeName: "bool", Raw: "1", Want: true},
		{Name: "BoolZero", TypeName: "bool", Raw: "0", Want: false},
		{Name: "BoolTrue", TypeName: "bool", Raw: "true", Want: true},
		{Name: "BoolFalse", TypeName: "bool", Raw: "false", Want: false},
		{Name: "BoolYes", TypeName: "bool", Raw: "yes", Want: true},
		{Name: "Int", TypeName: "int", Raw: "-17", Want: -17},
		{Name: "Object", TypeName: "object", Raw: "5", Want: 5},
		{Name: "Float", TypeName: "float", Raw: "2.5", Want: 2.5},
		{Name: "String", TypeName: "string", Raw: "hello", Want: "hello"},
		{Name: "Color", TypeName: "color", Raw: "#ff00ff00", Want: "#ff00ff00"},
		{Name: "File", TypeName: "file", Raw: "a/b.png", Want: "a/b.png"},
		{Name: "NoType", TypeName: "", Raw: "plain", Want: "plain"},
		{Name: "UnknownType", TypeName: "quaternion", Raw: "w=1", Want: "w=1"},
	}
	for _, tc := range cases {
		t.Run(tc.Name, func(t *testing.T) {
			got, err := props.Cast(tc.TypeName, tc.Raw)
			if err != nil {
				t.Fatalf("Cast(%q, %q) failed: %v", tc.TypeName, tc.Raw, err)
			}
			if diff := cmp.Diff(tc.Want, got); diff != "" {
				t.Errorf("Cast(%q, %q) mismatch (-want+got):\n%v", tc.TypeName, tc.Raw, diff)
			}
		})
	}
}

func TestCastErrors(t *testing.T) {
	for _, tc := range []struct{ TypeName, Raw string }{
		{"bool", "maybe"},
		{"int", "seven"},
		{"float", "fast"},
	} {
		if _, err := props.Cast(tc.TypeName, tc.Raw); err == nil {
			t.Errorf("Cast(%q, %q) succeeded, want error", tc.TypeName, tc.Raw)
		}
	}
}

func TestInstantiate(t *testing.T) {
	types := props.Types{
		"Door": {Name: "Door", Members: map[string]any{"locked": false, "hp": 10}},
	}

	instance, err := types.Instantiate("Door")
	if err != nil {
		t.Fatalf("Instantiate failed: %v", err)
	}

	// Mutating the instance must not leak into the schema template.
	instance.Members["locked"] = true
	instance.Members["hp"] = 1

	fresh, err := types.Instantiate("Door")
	if err != nil {
		t.Fatalf("Instantiate failed: %v", err)
	}
	want := map[string]any{"locked": false, "hp": 10}
	if diff := cmp.Diff(want, fresh.Members); diff != "" {
		t.Errorf("template mutated through instance (-want+got):\n%v", diff)
	}
}

func TestInstantiateNested(t *testing.T) {
	types := props.Types{
		"Stats": {Name: "Stats", Members: map[string]any{"str": 1}},
		"Enemy": {Name: "Enemy", Members: map[string]any{
			"stats": props.Class{Name: "Stats", Members: map[string]any{"str": 1}},
		}},
	}

	instance, err := types.Instantiate("Enemy")
	if err != nil {
		t.Fatalf("Instantiate failed: %v", err)
	}
	nested := instance.Members["stats"].(props.Class)
	nested.Members["str"] = 99

	template := types["Enemy"].Members["stats"].(props.Class)
	if got, want := template.Members["str"], 1; got != want {
		t.Errorf("nested template member = %v, want = %v", got, want)
	}
}

func TestInstantiateUnknown(t *testing.T) {
	types := props.Types{}
	_, err := types.Instantiate("Ghost")
	if !errors.Is(err, props.ErrUnknownCustomType) {
		t.Errorf("Instantiate error = %v, want ErrUnknownCustomType", err)
	}
}
