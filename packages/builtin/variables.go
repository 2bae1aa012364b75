package builtin

import (
	"regexp"
	"sort"
)

var dynamicPattern = regexp.MustCompile(`\{\{\s*\$([A-Za-z0-9_]+)\s*\}\}`)

// Names of the dynamic variables understood by the runner.
var defaultNames = []string{
	"guid",
	"timestamp",
	"isoTimestamp",
	"randomUUID",
	"randomInt",
	"randomAlphaNumeric",
	"randomBoolean",
	"randomColor",
	"randomHexColor",
	"randomAbbreviation",
	"randomIP",
	"randomIPV6",
	"randomMACAddress",
	"randomPassword",
	"randomLocale",
	"randomUserAgent",
	"randomProtocol",
	"randomSemver",
	"randomFirstName",
	"randomLastName",
	"randomFullName",
	"randomNamePrefix",
	"randomNameSuffix",
	"randomJobTitle",
	"randomPhoneNumber",
	"randomPhoneNumberExt",
	"randomCity",
	"randomStreetName",
	"randomStreetAddress",
	"randomCountry",
	"randomCountryCode",
	"randomLatitude",
	"randomLongitude",
	"randomAvatarImage",
	"randomImageUrl",
	"randomBankAccount",
	"randomBankAccountIban",
	"randomCurrencyCode",
	"randomPrice",
	"randomCompanyName",
	"randomCatchPhrase",
	"randomDatabaseColumn",
	"randomDateFuture",
	"randomDatePast",
	"randomDateRecent",
	"randomWeekday",
	"randomMonth",
	"randomDomainName",
	"randomDomainWord",
	"randomEmail",
	"randomExampleEmail",
	"randomUserName",
	"randomUrl",
	"randomFileName",
	"randomFileType",
	"randomFileExt",
	"randomMimeType",
	"randomDirectoryPath",
	"randomFilePath",
	"randomProduct",
	"randomProductName",
	"randomDepartment",
	"randomNoun",
	"randomVerb",
	"randomAdjective",
	"randomWord",
	"randomWords",
	"randomPhrase",
	"randomLoremWord",
	"randomLoremWords",
	"randomLoremSentence",
	"randomLoremSentences",
	"randomLoremParagraph",
	"randomLoremText",
}

type Registry struct {
	names map[string]bool
}

func NewRegistry() *Registry {
	r := &Registry{
		names: make(map[string]bool, len(defaultNames)),
	}
	for _, name := range defaultNames {
		r.names[name] = true
	}
	return r
}

// Register adds a name, for runners with extra dynamic variables.
func (r *Registry) Register(name string) {
	r.names[name] = true
}

// Has reports whether name, written without the leading $, is known.
func (r *Registry) Has(name string) bool {
	return r.names[name]
}

func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.names))
	for name := range r.names {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Unknown returns the {{$name}} tokens of text whose name is not registered,
// each once, in order of appearance.
func (r *Registry) Unknown(text string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, m := range dynamicPattern.FindAllStringSubmatch(text, -1) {
		name := m[1]
		if r.names[name] || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out
}
