package enum

// Affiliation is a user's standing in a MUC room as tracked by ejabberd.
type Affiliation string

const (
	AffiliationOwner  Affiliation = "owner"
	AffiliationMember Affiliation = "member"
	AffiliationNone   Affiliation = "none"
)
