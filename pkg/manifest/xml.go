// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/plugload/plugload/pkg/types"
)

type (
	xmlManifest struct {
		XMLName xml.Name
		Entries []xmlElement `xml:",any"`
	}

	xmlElement struct {
		XMLName   xml.Name
		Name      string `xml:"name,attr"`
		Directory string `xml:"directory,attr"`
		Prepend   string `xml:"prepend,attr"`
	}
)

// decodeXML reads <Namespace> and <Root> children of the document element,
// whatever its name, in document order. Other children are skipped.
func decodeXML(data []byte) (*Declarations, error) {
	var doc xmlManifest
	dec := xml.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}

	decls := &Declarations{}
	for i, e := range doc.Entries {
		kind := e.XMLName.Local
		if kind != "Namespace" && kind != "Root" {
			slog.Debug("skipping manifest element", "element", kind, "root", doc.XMLName.Local)
			continue
		}
		if e.Directory == "" {
			return nil, fmt.Errorf("%s #%d: missing directory attribute", kind, i+1)
		}
		if kind == "Root" {
			decls.Trees = append(decls.Trees, TreeDirective{
				RootNamespace: e.Name,
				RootDirectory: types.FilesystemPath(e.Directory),
			})
			continue
		}

		prepend := false
		if e.Prepend != "" {
			b, err := strconv.ParseBool(e.Prepend)
			if err != nil {
				return nil, fmt.Errorf("Namespace %q: invalid prepend attribute %q", e.Name, e.Prepend)
			}
			prepend = b
		}
		decls.Namespaces = append(decls.Namespaces, Declaration{
			Prefix:    e.Name,
			Directory: types.FilesystemPath(e.Directory),
			Prepend:   prepend,
		})
	}
	return decls, nil
}
