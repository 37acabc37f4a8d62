package employee

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/mesh-intelligence/griddle/internal/synth"
)

// Generator tuning.
const (
	performancePoints = 26
	salaryFloor       = 55000
	salarySpread      = 95000
	maxTagsPerRow     = 3
)

// Generate builds count employees. The result is a pure function of count
// and seed: the same inputs always produce the same rows, and IDs run from
// 1 to count. A negative count yields no rows.
func Generate(count, seed int) []Employee {
	if count < 0 {
		count = 0
	}
	out := make([]Employee, count)
	for i := range out {
		out[i] = build(i, seed)
	}
	return out
}

func build(i, off int) Employee {
	first := firstNames[mod(i+off, len(firstNames))]
	last := lastNames[mod(i*3+off, len(lastNames))]
	domain := domains[mod(i+off, len(domains))]
	hired := time.Date(2024, time.January, 12+i*7+mod(off, 5), 0, 0, 0, 0, time.UTC)

	return Employee{
		ID:          i + 1,
		Email:       strings.ToLower(fmt.Sprintf("%s.%s%d@%s", first, last, i+1, domain)),
		FirstName:   first,
		LastName:    last,
		OptIn:       mod(i+2+off, 3) != 0,
		Title:       titles[mod(i*2+3+off, len(titles))],
		Website:     "https://" + sites[mod(i+off, len(sites))],
		Performance: performance(i + off + 5),
		Tags:        pickTags(i + off),
		Manager:     managerPool[mod(i+off, len(managerPool))],
		HiredAt:     &hired,
		Salary:      salary(i + off),
		Stage:       stage(i + off),
	}
}

// performance draws a random walk seeded by seed.
func performance(seed int) Performance {
	r := synth.NewRand(seed + 11)
	trend := r.Next()*0.6 + 0.2
	values := make([]float64, performancePoints)
	for i := range values {
		trend += (r.Next() - 0.5) * 0.35
		values[i] = trend
	}
	return Performance{
		Values: values,
		Color:  performancePalettes[mod(seed, len(performancePalettes))],
	}
}

// pickTags returns one to three distinct tags in pool order.
func pickTags(seed int) []string {
	r := synth.NewRand(seed + 101)
	n := 1 + r.Intn(maxTagsPerRow)
	picked := make(map[int]bool, n)
	for len(picked) < n {
		picked[r.Intn(len(tagPool))] = true
	}
	tags := make([]string, 0, n)
	for i, t := range tagPool {
		if picked[i] {
			tags = append(tags, t)
		}
	}
	return tags
}

// salary leaves every seventh row empty so numeric footers and the
// nulls-last sort have something to work on.
func salary(seed int) *float64 {
	if mod(seed, 7) == 3 {
		return nil
	}
	r := synth.NewRand(seed + 307)
	v := math.Round((salaryFloor+r.Next()*salarySpread)/100) * 100
	return &v
}

func stage(seed int) string {
	n := mod(seed, len(StageOptions)+1)
	if n == len(StageOptions) {
		return ""
	}
	return StageOptions[n].Value
}

// mod is the non-negative remainder, so negative seeds still index pools.
func mod(a, n int) int {
	m := a % n
	if m < 0 {
		m += n
	}
	return m
}
