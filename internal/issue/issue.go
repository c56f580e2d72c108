// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"sort"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/slices"
)

type Id int

const (
	ConfigLoadFailedId Id = iota + 1
	ListingFetchFailedId
	ListingDecodeFailedId
	TargetNotFoundId
	EmptyLanguageId
	CompileTransportFailedId
	ServiceOutageId
	SourceReadFailedId
	CompilationFailedId
)

type MarkdownMsg string

type HttpLink string

type Issue struct {
	id       Id          // ID used to lookup the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink
	extLinks []HttpLink // external links that might be useful for the user
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

// Render renders the issue as terminal markdown with the given glamour style
// ("dark", "light", "notty", or a path to a style file).
func (i *Issue) Render(stylePath string) (string, error) {
	extraMd := ""
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		extraMd += "\n\n"
		extraMd += "## See also:\n"
		for _, link := range i.docLinks {
			extraMd += "- <" + string(link) + ">\n"
		}
		for _, link := range i.extLinks {
			extraMd += "- <" + string(link) + ">\n"
		}
	}
	return render(string(i.mdMsg)+extraMd, stylePath)
}

var (
	render = glamour.Render

	apiDocs = HttpLink("https://github.com/melpon/wandbox/blob/master/kennel/API.md")

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

Your configuration file could not be loaded.

## Things you can try:
- Check the file for CUE syntax errors
- Compare it with the defaults:
~~~
$ wandbox config dump
~~~
- Recreate a default configuration:
~~~
$ wandbox config init
~~~`,
	}

	listingFetchFailedIssue = &Issue{
		id: ListingFetchFailedId,
		mdMsg: `
# Could not fetch the compiler list!

The compiler catalog is downloaded from Wandbox at startup and nothing else
works without it.

## Things you can try:
- Check your network connection
- Verify ` + "`base_url`" + ` in your configuration points at a Wandbox API root
- Try again later, the service may be briefly unavailable`,
		docLinks: []HttpLink{apiDocs},
	}

	listingDecodeFailedIssue = &Issue{
		id: ListingDecodeFailedId,
		mdMsg: `
# The compiler list could not be read!

Wandbox answered, but the body was not the expected JSON array of compilers.
This usually means ` + "`base_url`" + ` points at something that is not the
Wandbox API, or a proxy replaced the response.`,
		docLinks: []HttpLink{apiDocs},
	}

	targetNotFoundIssue = &Issue{
		id: TargetNotFoundId,
		mdMsg: `
# Unknown compilation target!

A target is either a language name (lowercase, e.g. ` + "`c++`" + `) or a
compiler identifier (e.g. ` + "`gcc-head`" + `).

## Things you can try:
- List the available languages:
~~~
$ wandbox languages
~~~
- List the compilers of a language:
~~~
$ wandbox compilers c++
~~~
- Check that the target is not in ` + "`exclude.compilers`" + ` or ` + "`exclude.languages`",
	}

	emptyLanguageIssue = &Issue{
		id: EmptyLanguageId,
		mdMsg: `
# Language has no compilers left!

Every compiler of this language was excluded, so it has no default compiler.

## Things you can try:
- Remove some entries from ` + "`exclude.compilers`" + `
- Exclude the whole language with ` + "`exclude.languages`" + ` instead`,
	}

	compileTransportFailedIssue = &Issue{
		id: CompileTransportFailedId,
		mdMsg: `
# The compile request did not reach Wandbox!

## Things you can try:
- Check your network connection
- Raise ` + "`timeout`" + ` in your configuration for long-running programs`,
	}

	serviceOutageIssue = &Issue{
		id: ServiceOutageId,
		mdMsg: `
# Wandbox sent an unreadable reply!

The HTTP status is shown above. A 5xx status usually means Wandbox is
experiencing an outage; a 200 status means the API changed.`,
		extLinks: []HttpLink{"https://wandbox.org"},
	}

	sourceReadFailedIssue = &Issue{
		id: SourceReadFailedId,
		mdMsg: `
# Could not read the source code!

Pass a readable file path, or ` + "`-`" + ` to read the program from stdin.`,
	}

	compilationFailedIssue = &Issue{
		id: CompilationFailedId,
		mdMsg: `
# The program did not exit cleanly!

The compiler or program messages are shown above. Add ` + "`--option`" + ` flags to
adjust compiler settings, or pick a different compiler with ` + "`wandbox compilers`" + `.`,
	}

	issues = map[Id]*Issue{
		configLoadFailedIssue.Id():       configLoadFailedIssue,
		listingFetchFailedIssue.Id():     listingFetchFailedIssue,
		listingDecodeFailedIssue.Id():    listingDecodeFailedIssue,
		targetNotFoundIssue.Id():         targetNotFoundIssue,
		emptyLanguageIssue.Id():          emptyLanguageIssue,
		compileTransportFailedIssue.Id(): compileTransportFailedIssue,
		serviceOutageIssue.Id():          serviceOutageIssue,
		sourceReadFailedIssue.Id():       sourceReadFailedIssue,
		compilationFailedIssue.Id():      compilationFailedIssue,
	}
)

// Values returns every catalog entry ordered by Id.
func Values() []*Issue {
	out := make([]*Issue, 0, len(issues))
	for _, is := range issues {
		out = append(out, is)
	}
	sort.Slice(out, func(a, b int) bool { return out[a].id < out[b].id })
	return out
}

func Get(id Id) *Issue {
	return issues[id]
}
