package amqp

import "testing"

func TestExpenseEventRoundTrip(t *testing.T) {
	event := NewExpenseEvent(42, ActionUpdated)

	body, err := event.ToJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	decoded, err := ExpenseEventFromJSON(body)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.ID != 42 || decoded.Action != ActionUpdated {
		t.Fatalf("unexpected event: %+v", decoded)
	}
	if decoded.OccurredAt.IsZero() {
		t.Fatal("expected occurred_at to be set")
	}
}

func TestExpenseEventRejectsUnknownAction(t *testing.T) {
	if _, err := ExpenseEventFromJSON([]byte(`{"id":1,"action":"renamed"}`)); err == nil {
		t.Fatal("expected error for unknown action")
	}
	if _, err := ExpenseEventFromJSON([]byte(`not json`)); err == nil {
		t.Fatal("expected error for malformed body")
	}
}
