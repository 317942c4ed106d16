package authgate

import (
	"context"
	"testing"
)

func TestBindIdentity_RoundTrip(t *testing.T) {
	identity := Identity{Subject: "u123", Email: "user@example.com", Role: "member"}
	ctx := BindIdentity(context.Background(), identity)

	got, ok := IdentityFromContext(ctx)
	if !ok {
		t.Fatal("identity not found in context")
	}
	if got != identity {
		t.Fatalf("identity mismatch: got %+v want %+v", got, identity)
	}
}

func TestBindIdentity_WriteOnce(t *testing.T) {
	first := Identity{Subject: "u123"}
	second := Identity{Subject: "u456"}

	ctx := BindIdentity(context.Background(), first)
	ctx = BindIdentity(ctx, second)

	got, ok := IdentityFromContext(ctx)
	if !ok {
		t.Fatal("identity not found in context")
	}
	if got.Subject != "u123" {
		t.Fatalf("rebind overwrote the identity: %+v", got)
	}
}

func TestIdentityFromContext_Absent(t *testing.T) {
	if _, ok := IdentityFromContext(context.Background()); ok {
		t.Fatal("expected no identity in fresh context")
	}
}
