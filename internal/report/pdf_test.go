package report

import (
	"bytes"
	"testing"

	"github.com/wperaltaarriaga/songs-api/internal/core/domain"
)

func TestUsersPDF(t *testing.T) {
	users := []*domain.User{
		{Name: "Alice", Email: "alice@example.com", Age: 30, Role: domain.RoleUser},
		{Name: "Root", Email: "root@example.com", Age: 40, Role: domain.RoleAdmin},
	}

	pdf, err := UsersPDF(users)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Fatalf("output is not a PDF document")
	}
}

func TestUsersPDF_Empty(t *testing.T) {
	pdf, err := UsersPDF(nil)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Fatalf("output is not a PDF document")
	}
}
