// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"cmp"
	"maps"
	"slices"
	"strings"

	"github.com/charmbracelet/glamour"
)

type Id int

const (
	ManifestNotFoundId Id = iota + 1
	ManifestParseErrorId
	UnsupportedManifestFormatId
	InvalidNamespaceId
	NameNotResolvedId
	TreeRootUnreadableId
	ConfigLoadFailedId
	PermissionDeniedId
	WatchFailedId
)

type MarkdownMsg string

type HttpLink string

type Issue struct {
	id       Id          // ID used to lookup the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink  // must never be empty
	extLinks []HttpLink  // external links that might be useful for the user
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

// Render renders the issue through glamour using the given style
// ("dark", "light", "notty", or a path to a JSON style file).
func (i *Issue) Render(stylePath string) (string, error) {
	var md strings.Builder
	md.WriteString(string(i.mdMsg))
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		md.WriteString("\n\n## See also\n")
		for _, link := range i.docLinks {
			md.WriteString("- <" + string(link) + ">\n")
		}
		for _, link := range i.extLinks {
			md.WriteString("- <" + string(link) + ">\n")
		}
	}
	return render(md.String(), stylePath)
}

var (
	render = glamour.Render

	manifestNotFoundIssue = &Issue{
		id: ManifestNotFoundId,
		mdMsg: `
# No manifest found!

The autoload manifest could not be opened.

## Things you can try:
- Point at a manifest explicitly:
~~~
$ plugload map --manifest ./autoload.json
~~~

- Or set a default in your config file:
~~~cue
manifest: "./config/autoload.json"
~~~`,
		docLinks: []HttpLink{"https://github.com/plugload/plugload#manifests"},
	}

	manifestParseErrorIssue = &Issue{
		id: ManifestParseErrorId,
		mdMsg: `
# Failed to parse the manifest!

The manifest exists but its content could not be decoded.

## A valid JSON manifest looks like:
~~~json
{
  "Namespaces": {
    "ROOT": "src",
    "Vendor\\Lib": ["lib", {"directory": "override", "prepend": true}]
  }
}
~~~

## Things you can try:
- Validate the document:
~~~
$ plugload check --manifest ./autoload.json
~~~`,
		docLinks: []HttpLink{"https://github.com/plugload/plugload#manifest-format"},
	}

	unsupportedManifestFormatIssue = &Issue{
		id: UnsupportedManifestFormatId,
		mdMsg: `
# Unsupported manifest format!

The manifest format is chosen by file extension.

## Supported extensions:
- ` + "`.json`" + `
- ` + "`.xml`" + `
- ` + "`.yaml`" + ` / ` + "`.yml`" + `
- ` + "`.toml`" + `
- ` + "`.cue`",
		docLinks: []HttpLink{"https://github.com/plugload/plugload#manifest-format"},
	}

	invalidNamespaceIssue = &Issue{
		id: InvalidNamespaceId,
		mdMsg: `
# Invalid namespace prefix!

Namespace prefixes are made of segments separated by a backslash.
Segments must not be empty, ` + "`.`" + ` or ` + "`..`" + `, and must not contain ` + "`/`" + `.

## Examples:
- ` + "`Vendor\\Lib`" + ` is valid
- ` + "`Vendor\\\\Lib`" + ` has an empty segment
- ` + "`Vendor\\..\\Lib`" + ` escapes the directory`,
		docLinks: []HttpLink{"https://github.com/plugload/plugload#namespaces"},
	}

	nameNotResolvedIssue = &Issue{
		id: NameNotResolvedId,
		mdMsg: `
# Name could not be resolved!

No registered prefix produced an existing file for this name.

## Things you can try:
- Inspect every candidate that was probed:
~~~
$ plugload explain 'Vendor\Lib\Widget'
~~~

- List the registered prefixes:
~~~
$ plugload map
~~~`,
		docLinks: []HttpLink{"https://github.com/plugload/plugload#resolution"},
	}

	treeRootUnreadableIssue = &Issue{
		id: TreeRootUnreadableId,
		mdMsg: `
# Tree root could not be read!

A generated namespace tree points at a directory that is missing or unreadable.
Only the root mapping was registered.

## Things you can try:
- Check the ` + "`ROOT`" + ` directive in your manifest
- Check directory permissions:
~~~
$ ls -ld /path/to/root
~~~`,
		docLinks: []HttpLink{"https://github.com/plugload/plugload#namespace-trees"},
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

## Things you can try:
- Write a fresh default config:
~~~
$ plugload config init
~~~

- Show the effective configuration:
~~~
$ plugload config show
~~~`,
		docLinks: []HttpLink{"https://github.com/plugload/plugload#configuration"},
	}

	permissionDeniedIssue = &Issue{
		id: PermissionDeniedId,
		mdMsg: `
# Permission denied!

A file or directory needed for resolution could not be accessed.

## Things you can try:
- Check ownership and mode of the manifest and mapped directories
- Run the command as the user that owns the project tree`,
		docLinks: []HttpLink{"https://github.com/plugload/plugload#troubleshooting"},
	}

	watchFailedIssue = &Issue{
		id: WatchFailedId,
		mdMsg: `
# File watching failed!

The watcher could not subscribe to changes for the manifest or a tree root.

## Things you can try:
- Raise the inotify watch limit on Linux:
~~~
$ sysctl fs.inotify.max_user_watches
~~~
- Add large directories to ` + "`generator.ignore`" + ` in your config`,
		docLinks: []HttpLink{"https://github.com/plugload/plugload#watch"},
		extLinks: []HttpLink{"https://github.com/fsnotify/fsnotify#faq"},
	}

	issues = map[Id]*Issue{
		manifestNotFoundIssue.Id():          manifestNotFoundIssue,
		manifestParseErrorIssue.Id():        manifestParseErrorIssue,
		unsupportedManifestFormatIssue.Id(): unsupportedManifestFormatIssue,
		invalidNamespaceIssue.Id():          invalidNamespaceIssue,
		nameNotResolvedIssue.Id():           nameNotResolvedIssue,
		treeRootUnreadableIssue.Id():        treeRootUnreadableIssue,
		configLoadFailedIssue.Id():          configLoadFailedIssue,
		permissionDeniedIssue.Id():          permissionDeniedIssue,
		watchFailedIssue.Id():               watchFailedIssue,
	}
)

// Values returns every issue ordered by Id.
func Values() []*Issue {
	return slices.SortedFunc(maps.Values(issues), func(a, b *Issue) int {
		return cmp.Compare(a.id, b.id)
	})
}

func Get(id Id) *Issue {
	return issues[id]
}
