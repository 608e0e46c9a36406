package bbolt

import (
	"encoding/json"
	"fmt"
	"slices"

	"github.com/notelace/notelace-server/internal/model"
)

// On-disk record shapes. Keys are stored outside the value, so records only
// carry attributes. Sets are persisted as sorted slices to keep encoding
// deterministic.

type userRecord struct {
	PasswordHash  []byte   `json:"password_hash"`
	Collaborators []string `json:"collaborators,omitempty"`
	OwnedFiles    []string `json:"owned_files,omitempty"`
}

type pageRecord struct {
	Title    string `json:"title"`
	Markdown string `json:"markdown"`
	HTML     string `json:"html"`
	Date     int64  `json:"date"`
}

func encodeUser(user model.User) ([]byte, error) {
	return json.Marshal(userRecord{
		PasswordHash:  user.PasswordHash[:],
		Collaborators: user.Collaborators,
		OwnedFiles:    user.OwnedFiles,
	})
}

func decodeUser(name string, raw []byte) (model.User, error) {
	var rec userRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return model.User{}, err
	}
	if len(rec.PasswordHash) != 32 {
		return model.User{}, fmt.Errorf("password hash has %d bytes, want 32", len(rec.PasswordHash))
	}

	user := model.User{
		Name:          name,
		Collaborators: rec.Collaborators,
		OwnedFiles:    rec.OwnedFiles,
	}
	copy(user.PasswordHash[:], rec.PasswordHash)
	// Older writers are not trusted to have sorted these.
	slices.Sort(user.Collaborators)
	slices.Sort(user.OwnedFiles)
	return user, nil
}

func encodePage(page model.Page) ([]byte, error) {
	return json.Marshal(pageRecord{
		Title:    page.Title,
		Markdown: page.Markdown,
		HTML:     page.HTML,
		Date:     page.Date,
	})
}

func decodePage(key model.PageKey, raw []byte) (model.Page, error) {
	var rec pageRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return model.Page{}, err
	}
	return model.Page{
		Owner:    key.Owner,
		Filename: key.Filename,
		Title:    rec.Title,
		Markdown: rec.Markdown,
		HTML:     rec.HTML,
		Date:     rec.Date,
	}, nil
}
