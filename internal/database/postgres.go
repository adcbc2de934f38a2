package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"chatspace/internal/models"
	"chatspace/pkg/logger"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

var ErrNotFound = errors.New("not found")

type PostgresDB struct {
	pool *pgxpool.Pool
}

func NewPostgresDB(databaseURL string) (*PostgresDB, error) {
	pool, err := pgxpool.New(context.Background(), databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Test connection
	if err := pool.Ping(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("Connected to database successfully")
	return &PostgresDB{pool: pool}, nil
}

func (db *PostgresDB) Close() error {
	db.pool.Close()
	return nil
}

// User Repository Implementation
func (db *PostgresDB) CreateUser(ctx context.Context, req *models.RegisterRequest) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	query := `
		INSERT INTO users (id, name, email, password_hash, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING id, name, email, created_at`

	user := &models.User{PasswordHash: string(hash)}
	err = db.pool.QueryRow(ctx, query, uuid.NewString(), req.Name, req.Email, string(hash)).Scan(
		&user.ID, &user.Name, &user.Email, &user.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

func (db *PostgresDB) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT id, name, email, password_hash, COALESCE(profile_picture, ''), created_at FROM users WHERE email = $1`

	user := &models.User{}
	err := db.pool.QueryRow(ctx, query, email).Scan(
		&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.ProfilePicture, &user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return user, nil
}

func (db *PostgresDB) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT id, name, email, COALESCE(profile_picture, ''), created_at FROM users WHERE id = $1`

	user := &models.User{}
	err := db.pool.QueryRow(ctx, query, id).Scan(
		&user.ID, &user.Name, &user.Email, &user.ProfilePicture, &user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return user, nil
}

func (db *PostgresDB) ListUsersExcluding(ctx context.Context, excludeIDs []string) ([]*models.User, error) {
	query := `
		SELECT id, name, email, COALESCE(profile_picture, ''), created_at
		FROM users
		WHERE NOT (id = ANY($1))
		ORDER BY name`

	rows, err := db.pool.Query(ctx, query, excludeIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanUsers(rows)
}

// Contact Repository Implementation
func (db *PostgresDB) AddMutualContact(ctx context.Context, userID, contactID string) error {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO contacts (user_id, contact_id) VALUES ($1, $2)
		ON CONFLICT (user_id, contact_id) DO NOTHING`

	if _, err := tx.Exec(ctx, query, userID, contactID); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, query, contactID, userID); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (db *PostgresDB) GetContacts(ctx context.Context, userID string) ([]*models.User, error) {
	query := `
		SELECT u.id, u.name, u.email, COALESCE(u.profile_picture, ''), u.created_at
		FROM contacts c
		JOIN users u ON u.id = c.contact_id
		WHERE c.user_id = $1
		ORDER BY u.name`

	rows, err := db.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanUsers(rows)
}

func (db *PostgresDB) GetContactIDs(ctx context.Context, userID string) ([]string, error) {
	query := `SELECT contact_id FROM contacts WHERE user_id = $1`

	rows, err := db.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

// Group Repository Implementation
func (db *PostgresDB) CreateGroup(ctx context.Context, name, description, adminID string, memberIDs []string) (*models.Group, error) {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	groupID := uuid.NewString()
	query := `
		INSERT INTO groups (id, name, description, admin_id, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, true, NOW(), NOW())`

	if _, err := tx.Exec(ctx, query, groupID, name, description, adminID); err != nil {
		return nil, fmt.Errorf("failed to create group: %w", err)
	}

	for _, memberID := range memberIDs {
		if _, err := tx.Exec(ctx,
			`INSERT INTO group_members (group_id, user_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			groupID, memberID); err != nil {
			return nil, fmt.Errorf("failed to add group member: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return db.GetGroupByID(ctx, groupID)
}

func (db *PostgresDB) GetGroupByID(ctx context.Context, id string) (*models.Group, error) {
	query := `
		SELECT id, name, description, admin_id, is_active, created_at, updated_at
		FROM groups WHERE id = $1`

	group := &models.Group{}
	err := db.pool.QueryRow(ctx, query, id).Scan(
		&group.ID, &group.Name, &group.Description, &group.AdminID,
		&group.IsActive, &group.CreatedAt, &group.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	members, err := db.getGroupMembers(ctx, id)
	if err != nil {
		return nil, err
	}
	group.Members = members

	return group, nil
}

func (db *PostgresDB) getGroupMembers(ctx context.Context, groupID string) ([]models.User, error) {
	query := `
		SELECT u.id, u.name, u.email, COALESCE(u.profile_picture, ''), u.created_at
		FROM group_members gm
		JOIN users u ON u.id = gm.user_id
		WHERE gm.group_id = $1
		ORDER BY u.name`

	rows, err := db.pool.Query(ctx, query, groupID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.ProfilePicture, &u.CreatedAt); err != nil {
			return nil, err
		}
		members = append(members, u)
	}

	return members, rows.Err()
}

func (db *PostgresDB) ListUserGroups(ctx context.Context, userID string) ([]*models.Group, error) {
	query := `
		SELECT g.id
		FROM groups g
		JOIN group_members gm ON gm.group_id = g.id
		WHERE gm.user_id = $1 AND g.is_active = true
		ORDER BY g.updated_at DESC`

	rows, err := db.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	groups := make([]*models.Group, 0, len(ids))
	for _, id := range ids {
		group, err := db.GetGroupByID(ctx, id)
		if err != nil {
			return nil, err
		}
		groups = append(groups, group)
	}

	return groups, nil
}

func (db *PostgresDB) UpdateGroup(ctx context.Context, groupID string, name, description *string) error {
	query := `
		UPDATE groups
		SET name = COALESCE($2, name),
		    description = COALESCE($3, description),
		    updated_at = NOW()
		WHERE id = $1`

	tag, err := db.pool.Exec(ctx, query, groupID, name, description)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (db *PostgresDB) AddGroupMembers(ctx context.Context, groupID string, memberIDs []string) error {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, memberID := range memberIDs {
		if _, err := tx.Exec(ctx,
			`INSERT INTO group_members (group_id, user_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			groupID, memberID); err != nil {
			return err
		}
	}

	if _, err := tx.Exec(ctx, `UPDATE groups SET updated_at = NOW() WHERE id = $1`, groupID); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (db *PostgresDB) RemoveGroupMember(ctx context.Context, groupID, memberID string) error {
	_, err := db.pool.Exec(ctx,
		`DELETE FROM group_members WHERE group_id = $1 AND user_id = $2`, groupID, memberID)
	return err
}

func (db *PostgresDB) SetGroupActive(ctx context.Context, groupID string, active bool) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE groups SET is_active = $2, updated_at = NOW() WHERE id = $1`, groupID, active)
	return err
}

func (db *PostgresDB) IsMember(ctx context.Context, groupID, userID string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM group_members WHERE group_id = $1 AND user_id = $2)`

	var exists bool
	err := db.pool.QueryRow(ctx, query, groupID, userID).Scan(&exists)
	return exists, err
}

// Message Repository Implementation
func (db *PostgresDB) CreateMessage(ctx context.Context, msg *models.Message) (*models.Message, error) {
	query := `
		INSERT INTO messages (id, sender_id, receiver_id, group_id, kind, text, image, created_at)
		VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), $5, $6, $7, NOW())
		RETURNING id, created_at`

	created := *msg
	err := db.pool.QueryRow(ctx, query,
		uuid.NewString(), msg.SenderID, msg.ReceiverID, msg.GroupID,
		string(msg.Kind), msg.Text, msg.Image,
	).Scan(&created.ID, &created.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create message: %w", err)
	}

	// Denormalize sender display fields for the live push.
	sender, err := db.GetUserByID(ctx, msg.SenderID)
	if err != nil {
		return nil, err
	}
	created.SenderName = sender.Name
	created.SenderPicture = sender.ProfilePicture

	return &created, nil
}

func (db *PostgresDB) GetDirectMessages(ctx context.Context, userID, otherID string) ([]*models.Message, error) {
	query := `
		SELECT m.id, m.sender_id, COALESCE(m.receiver_id, ''), COALESCE(m.group_id, ''),
		       m.kind, COALESCE(m.text, ''), COALESCE(m.image, ''), m.created_at,
		       u.name, COALESCE(u.profile_picture, '')
		FROM messages m
		JOIN users u ON u.id = m.sender_id
		WHERE m.kind = 'direct'
		  AND ((m.sender_id = $1 AND m.receiver_id = $2) OR (m.sender_id = $2 AND m.receiver_id = $1))
		ORDER BY m.created_at`

	rows, err := db.pool.Query(ctx, query, userID, otherID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanMessages(rows)
}

func (db *PostgresDB) GetGroupMessages(ctx context.Context, groupID string) ([]*models.Message, error) {
	query := `
		SELECT m.id, m.sender_id, COALESCE(m.receiver_id, ''), COALESCE(m.group_id, ''),
		       m.kind, COALESCE(m.text, ''), COALESCE(m.image, ''), m.created_at,
		       u.name, COALESCE(u.profile_picture, '')
		FROM messages m
		JOIN users u ON u.id = m.sender_id
		WHERE m.kind = 'group' AND m.group_id = $1
		ORDER BY m.created_at`

	rows, err := db.pool.Query(ctx, query, groupID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanMessages(rows)
}

// Event Repository Implementation
func (db *PostgresDB) CreateEvent(ctx context.Context, event *models.Event) (*models.Event, error) {
	query := `
		INSERT INTO events (id, title, description, event_date, group_id, created_by,
		                    is_completed, reminder_sent, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, false, false, NOW())
		RETURNING id, created_at`

	created := *event
	err := db.pool.QueryRow(ctx, query,
		uuid.NewString(), event.Title, event.Description, event.EventDate,
		event.GroupID, event.CreatedBy,
	).Scan(&created.ID, &created.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	return &created, nil
}

func (db *PostgresDB) GetEventByID(ctx context.Context, id string) (*models.Event, error) {
	query := eventSelect + ` WHERE e.id = $1`

	event := &models.Event{}
	if err := scanEvent(db.pool.QueryRow(ctx, query, id), event); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return event, nil
}

func (db *PostgresDB) ListGroupEvents(ctx context.Context, groupID string) ([]*models.Event, error) {
	query := eventSelect + `
		WHERE e.group_id = $1 AND e.is_completed = false
		ORDER BY e.event_date`

	rows, err := db.pool.Query(ctx, query, groupID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEvents(rows)
}

func (db *PostgresDB) DeleteEvent(ctx context.Context, id string) error {
	tag, err := db.pool.Exec(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (db *PostgresDB) FindDueEvents(ctx context.Context, from, to time.Time) ([]*models.Event, error) {
	query := eventSelect + `
		WHERE e.event_date >= $1 AND e.event_date < $2
		  AND e.is_completed = false AND e.reminder_sent = false`

	rows, err := db.pool.Query(ctx, query, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEvents(rows)
}

func (db *PostgresDB) ClaimEventReminder(ctx context.Context, eventID string) (bool, error) {
	// The reminder_sent predicate makes the claim race-safe across
	// overlapping dispatcher runs: only one of them affects a row.
	query := `
		UPDATE events
		SET reminder_sent = true, is_completed = true
		WHERE id = $1 AND reminder_sent = false`

	tag, err := db.pool.Exec(ctx, query, eventID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

const eventSelect = `
	SELECT e.id, e.title, e.description, e.event_date, e.group_id, g.name,
	       e.created_by, u.name, e.is_completed, e.reminder_sent, e.created_at
	FROM events e
	JOIN groups g ON g.id = e.group_id
	JOIN users u ON u.id = e.created_by`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner, event *models.Event) error {
	return row.Scan(
		&event.ID, &event.Title, &event.Description, &event.EventDate,
		&event.GroupID, &event.GroupName, &event.CreatedBy, &event.CreatorName,
		&event.IsCompleted, &event.ReminderSent, &event.CreatedAt,
	)
}

func scanEvents(rows pgx.Rows) ([]*models.Event, error) {
	var events []*models.Event
	for rows.Next() {
		event := &models.Event{}
		if err := scanEvent(rows, event); err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, rows.Err()
}

func scanMessages(rows pgx.Rows) ([]*models.Message, error) {
	var messages []*models.Message
	for rows.Next() {
		msg := &models.Message{}
		var kind string
		if err := rows.Scan(
			&msg.ID, &msg.SenderID, &msg.ReceiverID, &msg.GroupID, &kind,
			&msg.Text, &msg.Image, &msg.CreatedAt, &msg.SenderName, &msg.SenderPicture,
		); err != nil {
			return nil, err
		}
		msg.Kind = models.MessageKind(kind)
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}

func scanUsers(rows pgx.Rows) ([]*models.User, error) {
	var users []*models.User
	for rows.Next() {
		user := &models.User{}
		if err := rows.Scan(&user.ID, &user.Name, &user.Email, &user.ProfilePicture, &user.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}
