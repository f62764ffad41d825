// Package identity implements shell.IdentityProvider.
//
// Directory keeps actors in memory, BoltDirectory persists them in a boltdb file,
// and RedisCache is a read-through cache in front of either of them.
// Unknown actors resolve to the zero core.Actor, the command handlers treat them like disabled ones.
package identity

//go:generate mockgen -destination=mocks/mock_identity_provider.go -package=mocks github.com/AntonStoeckl/cyclerental-dcb-go/rental/shared/shell IdentityProvider
