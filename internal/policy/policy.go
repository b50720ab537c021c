// Package policy décide qui peut lire ou modifier une ressource
// rattachée à un commercial.
package policy

import "github.com/oxagroupe/oxa-crm/internal/models"

// Ownable : ressource rattachée à un commercial.
type Ownable interface {
	OwnerID() uint
}

// CanAccess autorise le commercial propriétaire et les admins. Une
// ressource sans propriétaire (OwnerID zéro) est accessible à tous
// les comptes connectés.
func CanAccess(user models.User, res Ownable) bool {
	if user.IsAdmin() {
		return true
	}
	owner := res.OwnerID()
	return owner == 0 || owner == user.ID
}
