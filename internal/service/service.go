package service

import (
	"errors"
)

var (
	ErrNotFound              = errors.New("not found")
	ErrSelfRelation          = errors.New("target is the account itself")
	ErrEnemyConflict         = errors.New("accounts are enemies")
	ErrDuplicateName         = errors.New("name already in use")
	ErrAlreadyFriends        = errors.New("already friends")
	ErrAlreadyMember         = errors.New("already a member")
	ErrAlreadyIdolized       = errors.New("already an idol")
	ErrAlreadyCrushed        = errors.New("already a crush")
	ErrAlreadyEnemy          = errors.New("already an enemy")
	ErrInvitationAlreadySent = errors.New("invitation already sent")
	ErrEmptyQueue            = errors.New("no pending messages")
	ErrInvalidArgument       = errors.New("invalid argument")
	ErrInvalidCredentials    = errors.New("invalid login or password")
	ErrAttributeNotSet       = errors.New("attribute not set")
	// ErrPersistence means the state could not be flushed to storage; the operation that
	// triggered the flush has not been applied.
	ErrPersistence = errors.New("persistence failure")
)

// FriendshipStatus is the outcome of a friendship request.
type FriendshipStatus int

const (
	// Pending means an invitation was recorded and awaits reciprocation.
	Pending FriendshipStatus = iota
	// Completed means the other side had already invited the requester, so both are now friends.
	Completed
)

func (s FriendshipStatus) String() string {
	if s == Completed {
		return "completed"
	}
	return "pending"
}

// Service is the social network. All logins are account identities that were already resolved
// from a session by the caller. Every mutating method persists the whole network before returning;
// when that fails the method returns an error wrapping ErrPersistence and nothing changes.
type Service interface {
	AccountService
	RelationService
	CommunityService
	MessageService
	// Reset removes every account and community, in memory and in storage.
	Reset() error
}

type AccountService interface {
	CreateAccount(login, password, name string) error
	// Authenticate fails with ErrInvalidCredentials whether the login is unknown or the password
	// does not match.
	Authenticate(login, password string) error
	// RemoveAccount deletes the account and every trace of it: relations, invitations, community
	// memberships, owned communities and the messages it sent.
	RemoveAccount(login string) error
	// GetAttribute returns a profile attribute. The "nome" attribute is the display name.
	GetAttribute(login, attribute string) (string, error)
	SetAttribute(login, attribute, value string) error
}

type RelationService interface {
	// RequestFriendship invites target to be a friend of login, or accepts target's pending
	// invitation to login.
	RequestFriendship(login, target string) (FriendshipStatus, error)
	AreFriends(login, other string) bool
	ListFriends(login string) ([]string, error)
	// ListInvitations returns the logins whose invitations to login are pending.
	ListInvitations(login string) ([]string, error)
	AddEnemy(login, target string) error
	IsEnemy(login, target string) bool
	ListEnemies(login string) ([]string, error)
	AddIdol(login, idol string) error
	IsFan(login, idol string) bool
	ListFans(login string) ([]string, error)
	ListIdols(login string) ([]string, error)
	// AddCrush records target as a crush of login. When target already has a crush on login both
	// receive a note announcing it.
	AddCrush(login, target string) error
	IsCrush(login, target string) bool
	ListCrushes(login string) ([]string, error)
}

type CommunityService interface {
	CreateCommunity(owner, name, description string) error
	JoinCommunity(login, name string) error
	// Broadcast appends text to the queue of every current member. The sender need not be one.
	Broadcast(sender, name, text string) error
	ListMembers(name string) ([]string, error)
	ListCommunities(login string) ([]string, error)
	CommunityOwner(name string) (string, error)
	CommunityDescription(name string) (string, error)
}

type MessageService interface {
	SendNote(from, to, text string) error
	ReadNote(login string) (string, error)
	ReadBroadcast(login string) (string, error)
}
