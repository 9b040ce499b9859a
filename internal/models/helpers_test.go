package models

import (
	"testing"

	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"
)

func TestRecordIDString(t *testing.T) {
	tests := []struct {
		name    string
		id      surrealmodels.RecordID
		want    string
		wantErr bool
	}{
		{"string id", surrealmodels.RecordID{Table: "session", ID: "abc-123"}, "abc-123", false},
		{"int id", surrealmodels.RecordID{Table: "session", ID: int64(42)}, "", true},
		{"nil id", surrealmodels.RecordID{Table: "session", ID: nil}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := RecordIDString(tt.id)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("RecordIDString(%v) expected error, got %q", tt.id, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("RecordIDString(%v) unexpected error: %v", tt.id, err)
			}
			if got != tt.want {
				t.Errorf("RecordIDString(%v) = %q, want %q", tt.id, got, tt.want)
			}
		})
	}
}

func TestMustRecordIDStringPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("Expected panic for non-string id")
		}
	}()
	MustRecordIDString(surrealmodels.RecordID{Table: "session", ID: int64(7)})
}
