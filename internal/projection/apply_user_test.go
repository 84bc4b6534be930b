package projection

import (
	"testing"

	"github.com/louisbranch/trackspace/internal/domain/event"
	"github.com/louisbranch/trackspace/internal/domain/user"
)

func TestApplyUserCreatedDefaults(t *testing.T) {
	a, views := newTestApplier()

	applyAll(t, a,
		projEvent("u-1", event.KindUser, "user.created", 1, `{"name":"Avery","email":"avery@example.com"}`),
	)
	record := views.users["u-1"]
	if record.Role != user.RoleMember {
		t.Fatalf("expected MEMBER default, got %s", record.Role)
	}
	if !record.Active {
		t.Fatal("expected new user to be active")
	}
}

func TestApplyUserLifecycle(t *testing.T) {
	a, views := newTestApplier()

	applyAll(t, a,
		projEvent("u-2", event.KindUser, "user.created", 1, `{"name":"Blake","email":"blake@example.com","role":"ADMIN"}`),
		projEvent("u-2", event.KindUser, "user.name_updated", 2, `{"name":"Blake R"}`),
		projEvent("u-2", event.KindUser, "user.email_updated", 3, `{"email":"blake.r@example.com"}`),
		projEvent("u-2", event.KindUser, "user.role_changed", 4, `{"role":"GUEST"}`),
		projEvent("u-2", event.KindUser, "user.deactivated", 5, `{}`),
	)

	record := views.users["u-2"]
	if record.Name != "Blake R" || record.Email != "blake.r@example.com" {
		t.Fatalf("expected updated profile, got %+v", record)
	}
	if record.Role != user.RoleGuest || record.Active {
		t.Fatalf("expected inactive GUEST, got %+v", record)
	}

	applyAll(t, a,
		projEvent("u-2", event.KindUser, "user.activated", 6, `{}`),
		projEvent("u-2", event.KindUser, "user.deleted", 7, `{}`),
	)
	record = views.users["u-2"]
	if !record.Active || !record.Deleted {
		t.Fatalf("expected reactivated then soft-deleted user, got %+v", record)
	}
}

func TestApplyUserUnknownRoleSkipped(t *testing.T) {
	a, views := newTestApplier()

	applyAll(t, a,
		projEvent("u-3", event.KindUser, "user.created", 1, `{"name":"Casey","email":"casey@example.com"}`),
		projEvent("u-3", event.KindUser, "user.role_changed", 2, `{"role":"OVERLORD"}`),
	)
	if got := views.users["u-3"].Role; got != user.RoleMember {
		t.Fatalf("expected role unchanged by unknown label, got %s", got)
	}
}
