package scheduler

import "strings"

// DefaultTriggerTime is used when a frequency code is not in the catalog
const DefaultTriggerTime = "08:00"

// TriggerSpec is the daily schedule a frequency code expands to
type TriggerSpec struct {
	Times       []string
	DosesPerDay int
}

// frequencyTable maps frequency codes to default daily trigger times. It
// carries both the current codes and the legacy numeric/slash forms still
// present on older prescriptions; legacy data is never migrated, just
// resolved here. Keys are lowercase.
var frequencyTable = map[string]TriggerSpec{
	// current codes
	"once_morning":      {Times: []string{"08:00"}, DosesPerDay: 1},
	"once_afternoon":    {Times: []string{"14:00"}, DosesPerDay: 1},
	"once_evening":      {Times: []string{"20:00"}, DosesPerDay: 1},
	"once_night":        {Times: []string{"22:00"}, DosesPerDay: 1},
	"once_daily":        {Times: []string{"08:00"}, DosesPerDay: 1},
	"twice_daily":       {Times: []string{"08:00", "20:00"}, DosesPerDay: 2},
	"three_times_daily": {Times: []string{"08:00", "14:00", "20:00"}, DosesPerDay: 3},
	"four_times_daily":  {Times: []string{"08:00", "12:00", "16:00", "20:00"}, DosesPerDay: 4},
	"every_6_hours":     {Times: []string{"00:00", "06:00", "12:00", "18:00"}, DosesPerDay: 4},
	"every_8_hours":     {Times: []string{"06:00", "14:00", "22:00"}, DosesPerDay: 3},
	"every_12_hours":    {Times: []string{"08:00", "20:00"}, DosesPerDay: 2},

	// legacy morning-noon-night codes
	"1-0-0": {Times: []string{"08:00"}, DosesPerDay: 1},
	"0-1-0": {Times: []string{"14:00"}, DosesPerDay: 1},
	"0-0-1": {Times: []string{"20:00"}, DosesPerDay: 1},
	"1-1-0": {Times: []string{"08:00", "14:00"}, DosesPerDay: 2},
	"1-0-1": {Times: []string{"08:00", "20:00"}, DosesPerDay: 2},
	"0-1-1": {Times: []string{"14:00", "20:00"}, DosesPerDay: 2},
	"1-1-1": {Times: []string{"08:00", "14:00", "20:00"}, DosesPerDay: 3},

	// legacy display strings
	"1/day":             {Times: []string{"08:00"}, DosesPerDay: 1},
	"2/day":             {Times: []string{"08:00", "20:00"}, DosesPerDay: 2},
	"3/day":             {Times: []string{"08:00", "14:00", "20:00"}, DosesPerDay: 3},
	"once a day":        {Times: []string{"08:00"}, DosesPerDay: 1},
	"twice a day":       {Times: []string{"08:00", "20:00"}, DosesPerDay: 2},
	"three times a day": {Times: []string{"08:00", "14:00", "20:00"}, DosesPerDay: 3},
}

// TimesFor resolves a frequency code to its default trigger times and doses
// per day. The lookup is case-insensitive. Unknown codes fall back to a
// single morning slot rather than failing; an unrecognized legacy string
// must never block reminder creation.
func TimesFor(code string) ([]string, int) {
	spec, ok := frequencyTable[strings.ToLower(strings.TrimSpace(code))]
	if !ok {
		return []string{DefaultTriggerTime}, 1
	}
	times := make([]string, len(spec.Times))
	copy(times, spec.Times)
	return times, spec.DosesPerDay
}
