package xmpp

import (
	"context"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

// Registrar ensures user identities exist on the XMPP server before they are
// used as room owners or members; ejabberd rejects affiliations for unknown
// JIDs.
type Registrar interface {
	RegisterUser(ctx context.Context, userID, password string) error
	UnregisterUser(ctx context.Context, userID string) error
	RegisteredUsers(ctx context.Context) ([]string, error)
	EnsureUsersRegistered(ctx context.Context, users []string) error
}

type registrar struct {
	client *Client
}

func NewRegistrar(client *Client) Registrar {
	return &registrar{client: client}
}

func (r *registrar) RegisterUser(ctx context.Context, userID, password string) error {
	payload := map[string]any{
		"user":     userID,
		"host":     r.client.VHost,
		"password": password,
	}
	var result string
	if err := r.client.post(ctx, "register", payload, &result); err != nil {
		return err
	}
	r.client.log.Infof("Registered user %s@%s", userID, r.client.VHost)
	return nil
}

func (r *registrar) UnregisterUser(ctx context.Context, userID string) error {
	payload := map[string]any{
		"user": userID,
		"host": r.client.VHost,
	}
	var result string
	if err := r.client.post(ctx, "unregister", payload, &result); err != nil {
		return err
	}
	r.client.log.Infof("Unregistered user %s@%s", userID, r.client.VHost)
	return nil
}

func (r *registrar) RegisteredUsers(ctx context.Context) ([]string, error) {
	payload := map[string]any{
		"host": r.client.VHost,
	}
	var users []string
	if err := r.client.post(ctx, "registered_users", payload, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// EnsureUsersRegistered fetches the registered-identity list once and
// registers only the missing users. Idempotent.
func (r *registrar) EnsureUsersRegistered(ctx context.Context, users []string) error {
	registered, err := r.RegisteredUsers(ctx)
	if err != nil {
		return err
	}

	missing, _ := lo.Difference(lo.Uniq(users), registered)
	for _, user := range missing {
		// TODO: source per-user credentials from a secret store instead of
		// minting throwaway passwords nobody can log in with.
		if err := r.RegisterUser(ctx, user, uuid.NewString()); err != nil {
			return err
		}
	}
	return nil
}
