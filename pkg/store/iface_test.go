package store

import (
	"errors"
	"testing"
)

// TestStoreImplementsInterface drives a real store through StoreInterface.
func TestStoreImplementsInterface(t *testing.T) {
	var iface StoreInterface = newTestStore(t)

	if _, err := iface.AddParticipant("Ana"); err != nil {
		t.Fatalf("AddParticipant: %v", err)
	}
	if _, err := iface.AddParticipant("Bo"); err != nil {
		t.Fatalf("AddParticipant: %v", err)
	}
	if err := iface.RenameParticipant(1, "Bob"); err != nil {
		t.Fatalf("RenameParticipant: %v", err)
	}
	if err := iface.RemoveParticipant(0); err != nil {
		t.Fatalf("RemoveParticipant: %v", err)
	}
	ps, err := iface.ListParticipants()
	if err != nil {
		t.Fatalf("ListParticipants: %v", err)
	}
	if len(ps) != 1 || ps[0].Name != "Bob" {
		t.Fatalf("participants = %+v, want [Bob]", ps)
	}
	if err := iface.ClearParticipants(); err != nil {
		t.Fatalf("ClearParticipants: %v", err)
	}

	if _, err := iface.LatestDraw(); !errors.Is(err, ErrNotFound) {
		t.Fatalf("LatestDraw on empty store: %v, want ErrNotFound", err)
	}
	d, err := iface.SaveDraw("tok", true)
	if err != nil {
		t.Fatalf("SaveDraw: %v", err)
	}
	if _, err := iface.GetDraw(d.ID); err != nil {
		t.Fatalf("GetDraw: %v", err)
	}
	if _, err := iface.LatestDraw(); err != nil {
		t.Fatalf("LatestDraw: %v", err)
	}
	draws, err := iface.ListDraws(10)
	if err != nil || len(draws) != 1 {
		t.Fatalf("ListDraws = %d, %v", len(draws), err)
	}
	n, err := iface.DeleteDraws()
	if err != nil || n != 1 {
		t.Fatalf("DeleteDraws = %d, %v", n, err)
	}
	if err := iface.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}
