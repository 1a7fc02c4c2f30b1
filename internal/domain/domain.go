package domain

// NameAttribute is the profile attribute that always resolves to the account's display name.
const NameAttribute = "nome"

// Account is the flat, exported view of a member of the network, as written to and read from
// persistent storage. Relation fields hold logins; Communities holds community names.
type Account struct {
	Login    string
	Password string
	Name     string
	// Attributes is the free-form profile of the account, keyed by attribute name.
	Attributes map[string]string
	// Notes holds the pending direct notes, oldest first.
	Notes []Note
	// Broadcasts holds the pending community messages, oldest first.
	Broadcasts []Broadcast

	Friends         []string
	InvitesSent     []string
	InvitesReceived []string
	Communities     []string
	Idols           []string
	Crushes         []string
	Enemies         []string
	Fans            []string
}

type Community struct {
	Name        string
	Description string
	Owner       string
	Members     []string
}

// Snapshot is the complete state of the network.
type Snapshot struct {
	Accounts    []Account
	Communities []Community
}
