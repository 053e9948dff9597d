package xmlstore

import (
	"encoding/xml"

	"github.com/japhet-mokoumbou/chat-platform/internal/models"
)

// Each snapshot file is an <items> element wrapping one child element
// per row, named after the entity.

type userList struct {
	XMLName xml.Name      `xml:"items"`
	Items   []models.User `xml:"user"`
}

type contactList struct {
	XMLName xml.Name         `xml:"items"`
	Items   []models.Contact `xml:"contact"`
}

type groupList struct {
	XMLName xml.Name       `xml:"items"`
	Items   []models.Group `xml:"group"`
}

type messageList struct {
	XMLName xml.Name         `xml:"items"`
	Items   []models.Message `xml:"message"`
}
