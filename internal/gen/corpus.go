package gen

var domainWords = []string{
	"example", "acme", "demo", "sample", "placeholder", "testsite", "northwind",
}

// Name alternates these so generated names stay pronounceable.
const (
	consonants = "bcdfghjklmnprstvwz"
	vowels     = "aeiou"
)
