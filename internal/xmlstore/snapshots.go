package xmlstore

import (
	"encoding/xml"
	"os"
	"path/filepath"

	"github.com/japhet-mokoumbou/chat-platform/internal/models"
)

// Snapshot readers for inspection and tooling. The mirror carries no
// consistency contract; these read whatever the last completed export
// wrote.

func LoadUsers(dir string) ([]models.User, error) {
	var doc userList
	if err := loadSnapshot(dir, TableUsers, &doc); err != nil {
		return nil, err
	}
	return doc.Items, nil
}

func LoadContacts(dir string) ([]models.Contact, error) {
	var doc contactList
	if err := loadSnapshot(dir, TableContacts, &doc); err != nil {
		return nil, err
	}
	return doc.Items, nil
}

func LoadGroups(dir string) ([]models.Group, error) {
	var doc groupList
	if err := loadSnapshot(dir, TableGroups, &doc); err != nil {
		return nil, err
	}
	return doc.Items, nil
}

func LoadMessages(dir string) ([]models.Message, error) {
	var doc messageList
	if err := loadSnapshot(dir, TableMessages, &doc); err != nil {
		return nil, err
	}
	return doc.Items, nil
}

func loadSnapshot(dir string, table Table, dest any) error {
	data, err := os.ReadFile(filepath.Join(dir, string(table)+".xml"))
	if err != nil {
		return err
	}
	return xml.Unmarshal(data, dest)
}
