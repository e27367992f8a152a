package repository

import (
	"database/sql"
	"log"

	"campusbarter/objects"
)

// SaveUser inserts or updates a user record
func (repo *Repository) SaveUser(user *objects.User) error {
	log.Printf("[REPOSITORY] Saving user %s (email: %s)", user.ID, user.Email)

	_, err := repo.db.Exec(
		`INSERT INTO users (id, email, nickname, avatar_url, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE
			SET email = $2,
			    nickname = $3,
			    avatar_url = $4`,
		user.ID, user.Email, user.Nickname, user.AvatarURL, user.CreatedAt,
	)

	if err != nil {
		log.Printf("[REPOSITORY] Error saving user %s: %v", user.ID, err)
		return err
	}

	log.Printf("[REPOSITORY] User %s saved successfully", user.ID)
	return nil
}

// FindUser retrieves a user by id, (nil, nil) when absent
func (repo *Repository) FindUser(id string) (*objects.User, error) {
	log.Printf("[REPOSITORY] Finding user with ID: %s", id)

	user := &objects.User{}
	err := repo.db.QueryRow(
		`SELECT id, email, nickname, avatar_url, created_at
		FROM users
		WHERE id = $1`,
		id,
	).Scan(&user.ID, &user.Email, &user.Nickname, &user.AvatarURL, &user.CreatedAt)

	if err != nil {
		if err == sql.ErrNoRows {
			log.Printf("[REPOSITORY] User %s not found", id)
			return nil, nil
		}
		log.Printf("[REPOSITORY] Error finding user %s: %v", id, err)
		return nil, err
	}

	return user, nil
}

// FindUserByEmail retrieves a user by email, (nil, nil) when absent
func (repo *Repository) FindUserByEmail(email string) (*objects.User, error) {
	log.Printf("[REPOSITORY] Finding user with email: %s", email)

	user := &objects.User{}
	err := repo.db.QueryRow(
		`SELECT id, email, nickname, avatar_url, created_at
		FROM users
		WHERE email = $1`,
		email,
	).Scan(&user.ID, &user.Email, &user.Nickname, &user.AvatarURL, &user.CreatedAt)

	if err != nil {
		if err == sql.ErrNoRows {
			log.Printf("[REPOSITORY] User with email %s not found", email)
			return nil, nil
		}
		log.Printf("[REPOSITORY] Error finding user by email %s: %v", email, err)
		return nil, err
	}

	return user, nil
}
