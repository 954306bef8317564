package campaigner

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// Names of the two files that make up a campaign folder.
const (
	TemplateFileName = "template.html"
	ContactsFileName = "contacts.csv"
)

// Campaign is a named, self-contained unit of one template plus one contact
// list, loaded from a folder under the campaigns root. Campaigns are
// read-only at send time.
type Campaign struct {
	// Name is the campaign folder name.
	Name string

	// Dir is the absolute or root-relative path of the campaign folder.
	Dir string

	// Template is the parsed subject/body template.
	Template *Template

	// Contacts is the ordered contact list.
	Contacts *ContactList
}

// ListCampaigns returns the names of available campaigns: folders under root
// that contain a template file, sorted by name. A missing root yields an
// empty list, not an error.
func ListCampaigns(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read campaigns dir: %w", err)
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if _, err := os.Stat(filepath.Join(root, e.Name(), TemplateFileName)); err == nil {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// LoadCampaign loads and validates the named campaign from root. It fails
// with ErrCampaignNotFound for an unknown name, and with a FormatError when
// the template or contact file is malformed. Loading failures are terminal:
// no send is attempted for a campaign that does not load.
func LoadCampaign(root, name string) (*Campaign, error) {
	dir := filepath.Join(root, name)
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %q (looked in %s)", ErrCampaignNotFound, name, dir)
	}

	templatePath := filepath.Join(dir, TemplateFileName)
	content, err := os.ReadFile(templatePath)
	if err != nil {
		return nil, fmt.Errorf("no %s in %s: %w", TemplateFileName, dir, err)
	}

	tmpl, err := ParseTemplate(content)
	if err != nil {
		var fe *FormatError
		if errors.As(err, &fe) {
			fe.File = templatePath
		}
		return nil, err
	}

	contactsPath := filepath.Join(dir, ContactsFileName)
	if _, err := os.Stat(contactsPath); err != nil {
		return nil, fmt.Errorf("no %s in %s: create one with an email column, or run the fetch command: %w",
			ContactsFileName, dir, err)
	}

	contacts, err := LoadContacts(contactsPath)
	if err != nil {
		return nil, err
	}

	return &Campaign{
		Name:     name,
		Dir:      dir,
		Template: tmpl,
		Contacts: contacts,
	}, nil
}
