package domain

// UserAccessModel describes the caller of an operation.
type UserAccessModel struct {
	UserID             string
	AccountType        AccountType
	WoodlandOwnerIDs   []string
	CanManageAllOwners bool
}

// IsFcUser reports whether the caller is internal staff.
func (u UserAccessModel) IsFcUser() bool {
	return u.AccountType == AccountFcUser
}

// CanAccessWoodlandOwner reports whether the caller may act for the owner.
// Internal users may access any owner.
func (u UserAccessModel) CanAccessWoodlandOwner(woodlandOwnerID string) bool {
	if u.IsFcUser() || u.CanManageAllOwners {
		return true
	}
	for _, id := range u.WoodlandOwnerIDs {
		if id == woodlandOwnerID {
			return true
		}
	}
	return false
}
