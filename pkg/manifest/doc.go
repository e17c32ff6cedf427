// SPDX-License-Identifier: MPL-2.0

// Package manifest reads autoload manifests: documents that declare
// namespace prefixes, their base directories and the namespace trees to
// synthesize from directory hierarchies.
//
// The format is chosen by file extension. JSON, YAML, TOML and CUE share a
// key-value shape:
//
//	{
//	  "Namespaces": {
//	    "Vendor\\Lib": "lib",
//	    "Vendor\\Util": ["util", {"directory": "override", "prepend": true}],
//	    "ROOT": {"App": "src"}
//	  }
//	}
//
// XML uses tags. The document element may have any name and children other
// than Namespace and Root are skipped:
//
//	<Namespaces>
//	  <Namespace name="Vendor\Lib" directory="lib"/>
//	  <Root name="App" directory="src"/>
//	</Namespaces>
package manifest
