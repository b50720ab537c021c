package policy

import (
	"testing"

	"github.com/oxagroupe/oxa-crm/internal/models"
)

func TestCanAccess(t *testing.T) {
	admin := models.User{ID: 1, Role: models.RoleAdmin}
	commercial := models.User{ID: 2, Role: models.RoleCommercial}
	autre := models.User{ID: 3, Role: models.RoleCommercial}

	client := models.Client{CommercialID: 2}
	if !CanAccess(admin, client) {
		t.Error("admin refusé")
	}
	if !CanAccess(commercial, client) {
		t.Error("propriétaire refusé")
	}
	if CanAccess(autre, client) {
		t.Error("commercial tiers autorisé")
	}

	orphelin := models.Devis{}
	if !CanAccess(autre, orphelin) {
		t.Error("ressource sans propriétaire refusée")
	}
}
