package xmpp

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"

	"chat-group-service/enum"
	"chat-group-service/errors"
)

// RoomDirectory is the adapter over the external chat-room system. Rooms are
// ejabberd MUC rooms on the configured conference service; the room id equals
// the chat group's metadata id. The adapter surfaces remote results
// faithfully and adds no retries.
type RoomDirectory interface {
	CreateRoom(ctx context.Context, roomID string, users []string) (bool, error)
	DestroyRoom(ctx context.Context, roomID string) (bool, error)
	SetAffiliation(ctx context.Context, roomID, userID string, affiliation enum.Affiliation) (bool, error)
	AddUsersToRoom(ctx context.Context, roomID string, users []string) error
	RemoveUsersFromRoom(ctx context.Context, roomID string, users []string) error
	GetRoomAffiliatedUsers(ctx context.Context, roomID string) ([]string, error)
	GetUserRooms(ctx context.Context, userID string) ([]string, error)
	SendMessage(ctx context.Context, fromUserID, toID string, messageType enum.MessageType, subject, body string) (bool, error)
}

type roomDirectory struct {
	client *Client
}

func NewRoomDirectory(client *Client) RoomDirectory {
	return &roomDirectory{client: client}
}

type roomOption struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// CreateRoom creates a members-only persistent room with users[0] as owner
// and the rest as members, in a single admin call.
func (d *roomDirectory) CreateRoom(ctx context.Context, roomID string, users []string) (bool, error) {
	affiliations := make([]string, 0, len(users))
	for i, user := range users {
		affiliation := enum.AffiliationMember
		if i == 0 {
			affiliation = enum.AffiliationOwner
		}
		affiliations = append(affiliations, fmt.Sprintf("%s:%s", affiliation, d.client.userJID(user)))
	}

	payload := map[string]any{
		"room":    roomID,
		"service": d.client.MUCService,
		"host":    d.client.VHost,
		"options": []roomOption{
			{Name: "persistent", Value: "true"},
			{Name: "members_only", Value: "true"},
			{Name: "allow_change_subj", Value: "false"},
			{Name: "affiliations", Value: strings.Join(affiliations, ",")},
		},
	}
	return d.client.postResult(ctx, "create_room_with_opts", payload)
}

func (d *roomDirectory) DestroyRoom(ctx context.Context, roomID string) (bool, error) {
	payload := map[string]any{
		"room":    roomID,
		"service": d.client.MUCService,
	}
	return d.client.postResult(ctx, "destroy_room", payload)
}

func (d *roomDirectory) SetAffiliation(ctx context.Context, roomID, userID string, affiliation enum.Affiliation) (bool, error) {
	payload := map[string]any{
		"name":        roomID,
		"service":     d.client.MUCService,
		"jid":         d.client.userJID(userID),
		"affiliation": string(affiliation),
	}
	return d.client.postResult(ctx, "set_room_affiliation", payload)
}

// AddUsersToRoom grants member affiliation one remote call per user; the
// admin API has no batch form.
func (d *roomDirectory) AddUsersToRoom(ctx context.Context, roomID string, users []string) error {
	for _, user := range users {
		ok, err := d.SetAffiliation(ctx, roomID, user, enum.AffiliationMember)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("set_room_affiliation rejected for user %s in room %s", user, roomID)
		}
	}
	return nil
}

func (d *roomDirectory) RemoveUsersFromRoom(ctx context.Context, roomID string, users []string) error {
	for _, user := range users {
		ok, err := d.SetAffiliation(ctx, roomID, user, enum.AffiliationNone)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("set_room_affiliation rejected for user %s in room %s", user, roomID)
		}
	}
	return nil
}

type roomAffiliation struct {
	Username    string `json:"username"`
	Domain      string `json:"domain"`
	Affiliation string `json:"affiliation"`
	Reason      string `json:"reason"`
}

// GetRoomAffiliatedUsers lists the bare usernames holding a non-none
// affiliation in the room. This is the authoritative membership read.
// An unknown room surfaces as NotFoundError.
func (d *roomDirectory) GetRoomAffiliatedUsers(ctx context.Context, roomID string) ([]string, error) {
	payload := map[string]any{
		"name":    roomID,
		"service": d.client.MUCService,
	}

	var affiliations []roomAffiliation
	if err := d.client.post(ctx, "get_room_affiliations", payload, &affiliations); err != nil {
		var statusErr *StatusError
		if stderrors.As(err, &statusErr) && statusErr.StatusCode == 400 {
			// ejabberd answers 400 "room does not exist" for unknown rooms.
			return nil, errors.NewNotFound("room %s not found", roomID)
		}
		return nil, err
	}

	users := make([]string, 0, len(affiliations))
	for _, aff := range affiliations {
		if aff.Affiliation == string(enum.AffiliationNone) {
			continue
		}
		users = append(users, bareUser(aff.Username))
	}
	return users, nil
}

// GetUserRooms lists the room ids the user belongs to, with the MUC service
// domain stripped.
func (d *roomDirectory) GetUserRooms(ctx context.Context, userID string) ([]string, error) {
	payload := map[string]any{
		"user": userID,
		"host": d.client.VHost,
	}

	var roomJIDs []string
	if err := d.client.post(ctx, "get_user_rooms", payload, &roomJIDs); err != nil {
		return nil, err
	}

	rooms := make([]string, 0, len(roomJIDs))
	for _, jid := range roomJIDs {
		rooms = append(rooms, bareUser(jid))
	}
	return rooms, nil
}

func (d *roomDirectory) SendMessage(ctx context.Context, fromUserID, toID string, messageType enum.MessageType, subject, body string) (bool, error) {
	to := d.client.userJID(toID)
	if messageType == enum.MessageTypeGroupChat {
		to = d.client.roomJID(toID)
	}

	payload := map[string]any{
		"type":    string(messageType),
		"from":    d.client.userJID(fromUserID),
		"to":      to,
		"subject": subject,
		"body":    body,
	}
	return d.client.postResult(ctx, "send_message", payload)
}
