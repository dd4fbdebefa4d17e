package sms

import (
	"strings"

	"github.com/beevik/etree"
)

// XMLLookup finds the text of the first element with the given tag name.
type XMLLookup interface {
	FindText(body []byte, tag string) (text string, found bool, err error)
}

// EtreeLookup is the default XMLLookup.
type EtreeLookup struct{}

// FindText parses body and returns the trimmed text of the first element
// named tag at any depth.
func (EtreeLookup) FindText(body []byte, tag string) (string, bool, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(body); err != nil {
		return "", false, err
	}
	el := doc.FindElement("//" + tag)
	if el == nil {
		return "", false, nil
	}
	return strings.TrimSpace(el.Text()), true, nil
}
