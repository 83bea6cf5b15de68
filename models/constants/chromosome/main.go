package chromosome

import (
	"fmt"
	"strconv"
	"strings"
)

// GRCh37 pseudoautosomal intervals, where X and Y recombine and
// behave autosomally. The third X interval is the X-transposed region.
var xPseudoautosomalRegions = [][2]int{
	{60001, 2699520},
	{154930290, 155260560},
	{88456802, 92375509},
}

var yPseudoautosomalRegions = [][2]int{
	{10001, 2649520},
	{59034050, 59363566},
}

func ValidListOfHumanChromosomes() []string {
	var humChroms []string
	for i := 1; i < 24; i++ {
		humChroms = append(humChroms, fmt.Sprint(i))
	}
	humChroms = append(humChroms, "X")
	humChroms = append(humChroms, "Y")
	humChroms = append(humChroms, "M")
	return humChroms
}

func IsValidHumanChromosome(text string) bool {

	// Check if number can be represented as an int as is non-zero
	chromNumber, _ := strconv.Atoi(Normalize(text))
	if chromNumber > 0 {
		// It can..
		// Check if it in range 1-23
		if chromNumber < 24 {
			return true
		}
	} else {
		// No it can't..
		// Check if it is an X, Y..
		loweredText := strings.ToLower(Normalize(text))
		switch loweredText {
		case "x":
			return true
		case "y":
			return true
		}

		// ..or M (MT)
		switch strings.Contains(loweredText, "m") {
		case true:
			return true
		}
	}

	return false
}

// Normalize strips any leading "chr"/"Chr" prefix
func Normalize(text string) string {
	lowered := strings.ToLower(text)
	if strings.HasPrefix(lowered, "chr") {
		return strings.ToUpper(text[3:])
	}
	return strings.ToUpper(text)
}

func IsX(text string) bool {
	return Normalize(text) == "X"
}

func IsY(text string) bool {
	return Normalize(text) == "Y"
}

func IsAllosome(text string) bool {
	return IsX(text) || IsY(text)
}

func InPseudoautosomalX(position int) bool {
	for _, region := range xPseudoautosomalRegions {
		if position >= region[0] && position <= region[1] {
			return true
		}
	}
	return false
}

func InPseudoautosomalY(position int) bool {
	for _, region := range yPseudoautosomalRegions {
		if position >= region[0] && position <= region[1] {
			return true
		}
	}
	return false
}
