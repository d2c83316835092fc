package element

import "testing"

func TestCreate_Idempotent(t *testing.T) {
	mount := NewMount()
	first := Create(mount, MountConfig{HidePostalCode: true})
	second := Create(mount, MountConfig{})

	if first != second {
		t.Fatal("second Create on the same mount must return the existing element")
	}
	if !first.GetState().Empty {
		t.Error("freshly mounted element must report empty")
	}
	if !mount.HasClass(DefaultClasses.Empty) {
		t.Error("mount must carry the empty status class after creation")
	}
}

func TestHandleChange_StateAndClasses(t *testing.T) {
	mount := NewMount()
	e := Create(mount, MountConfig{})

	e.HandleChange(ChangeEvent{Empty: false, Complete: true})

	state := e.GetState()
	if state.Empty || !state.Complete || state.Invalid {
		t.Fatalf("unexpected state after complete event: %+v", state)
	}
	if mount.HasClass(DefaultClasses.Empty) {
		t.Error("empty class must be removed once digits are entered")
	}
	if !mount.HasClass(DefaultClasses.Complete) {
		t.Error("complete class must be set")
	}
}

func TestHandleChange_CanonicalErrorMessages(t *testing.T) {
	cases := []struct {
		code string
		msg  string
		want string
	}{
		{"incomplete_number", "Your card number is incomplete.", CanonicalCardMessage},
		{"invalid_number", "Your card number is invalid.", CanonicalCardMessage},
		{"expired_card", "Your card has expired.", "Your card has expired."},
	}

	for _, tc := range cases {
		mount := NewMount()
		e := Create(mount, MountConfig{})
		e.HandleChange(ChangeEvent{Error: &ChangeError{Code: tc.code, Message: tc.msg}})

		state := e.GetState()
		if !state.Invalid {
			t.Errorf("%s: error event must mark state invalid", tc.code)
		}
		if state.Message != tc.want {
			t.Errorf("%s: message = %q, want %q", tc.code, state.Message, tc.want)
		}
		if !mount.HasClass(DefaultClasses.Invalid) {
			t.Errorf("%s: invalid class must be set", tc.code)
		}
	}
}

func TestHandleChange_NotifiesObservers(t *testing.T) {
	e := Create(NewMount(), MountConfig{})

	var seen []CardState
	e.OnChange(func(s CardState) { seen = append(seen, s) })

	e.HandleChange(ChangeEvent{Empty: true})
	e.HandleChange(ChangeEvent{Complete: true})

	if len(seen) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(seen))
	}
	if !seen[0].Empty || !seen[1].Complete {
		t.Errorf("observer saw wrong states: %+v", seen)
	}
}

func TestMarkInvalid(t *testing.T) {
	mount := NewMount()
	e := Create(mount, MountConfig{})
	e.HandleChange(ChangeEvent{Complete: true})

	e.MarkInvalid()

	if !e.GetState().Invalid {
		t.Error("MarkInvalid must flip the invalid flag")
	}
	if !mount.HasClass(DefaultClasses.Invalid) {
		t.Error("MarkInvalid must set the invalid class")
	}
	if !e.GetState().Complete {
		t.Error("MarkInvalid must not clear provider-reported completeness")
	}
}
