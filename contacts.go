package campaigner

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// EmailColumn is the one mandatory column of a contact file.
const EmailColumn = "email"

// Contact maps column names to values for a single recipient. Every column
// of the contact file beyond email is free-form and becomes a template
// variable of the same name.
type Contact map[string]string

// Email returns the contact's email address.
func (c Contact) Email() string {
	return c[EmailColumn]
}

// ContactList is an ordered sequence of contacts. Send order follows the
// row order of the source file.
type ContactList struct {
	// Columns preserves the header column order of the source file.
	Columns []string

	// Contacts holds one entry per usable row, in file order.
	Contacts []Contact
}

// Len returns the number of contacts in the list.
func (l *ContactList) Len() int {
	return len(l.Contacts)
}

// LoadContacts reads an RFC 4180 CSV contact file. The header row must
// contain an email column. Rows whose email field is empty after trimming
// are excluded; this is a deliberate policy so partially-filled exports do
// not abort a whole campaign.
func LoadContacts(path string) (*ContactList, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open contact file: %w", err)
	}
	defer f.Close()

	list, err := ReadContacts(f)
	if err != nil {
		var fe *FormatError
		if errors.As(err, &fe) && fe.File == "" {
			fe.File = path
		}
		return nil, err
	}
	return list, nil
}

// ReadContacts parses contact CSV data from r. Used by LoadContacts; exposed
// so callers can load contacts from sources other than the filesystem.
func ReadContacts(r io.Reader) (*ContactList, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if err == io.EOF {
		return nil, &FormatError{Reason: "contact file is empty"}
	}
	if err != nil {
		return nil, &FormatError{Reason: "invalid CSV header", Cause: err}
	}

	emailIdx := -1
	for i, col := range header {
		header[i] = strings.TrimSpace(col)
		if header[i] == EmailColumn {
			emailIdx = i
		}
	}
	if emailIdx == -1 {
		return nil, &FormatError{Reason: "contact file has no email column"}
	}

	list := &ContactList{Columns: header}

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &FormatError{Reason: "invalid CSV row", Cause: err}
		}

		contact := make(Contact, len(header))
		for i, col := range header {
			if i < len(record) {
				contact[col] = record[i]
			}
		}
		contact[EmailColumn] = strings.TrimSpace(contact[EmailColumn])

		// Rows without an address cannot be sent to; drop them.
		if contact.Email() == "" {
			continue
		}

		list.Contacts = append(list.Contacts, contact)
	}

	return list, nil
}
