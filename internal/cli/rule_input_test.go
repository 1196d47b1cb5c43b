package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Flyrell/redday/internal/rule"
)

func TestParseMonth(t *testing.T) {
	for in, want := range map[string]int{"1": 1, "12": 12, "dec": 12, "December": 12, "sept": 9, "MAY": 5} {
		got, err := parseMonth(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	for _, in := range []string{"0", "13", "ju", "smarch"} {
		_, err := parseMonth(in)
		assert.Error(t, err, in)
	}
}

func TestParseWeekday(t *testing.T) {
	for in, want := range map[string]int{"1": 1, "7": 7, "sun": 1, "Saturday": 7, "fri": 6, "tu": 3} {
		got, err := parseWeekday(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	for _, in := range []string{"0", "8", "s", "funday"} {
		_, err := parseWeekday(in)
		assert.Error(t, err, in)
	}
}

func TestParseOrdinal(t *testing.T) {
	for in, want := range map[string]int{"first": 1, "2nd": 2, "3": 3, "fourth": 4, "last": -1, "-1": -1} {
		got, err := parseOrdinal(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	for _, in := range []string{"fifth", "5", "0", "-2"} {
		_, err := parseOrdinal(in)
		assert.Error(t, err, in)
	}
}

func TestParseRangeAndSeason(t *testing.T) {
	start, end, err := parseRange("31-37")
	require.NoError(t, err)
	assert.Equal(t, 31, start)
	assert.Equal(t, 37, end)

	_, _, err = parseRange("31")
	assert.Error(t, err)

	m, err := parseSeason("Winter")
	require.NoError(t, err)
	assert.Equal(t, 12, m)

	_, err = parseSeason("monsoon")
	assert.Error(t, err)
}

func TestParseNewKey(t *testing.T) {
	key, title, err := parseNewKey("se/Påskafton hos mormor")
	require.NoError(t, err)
	assert.Equal(t, rule.Key{Region: "SE", Name: "custom.paskafton_hos_mormor"}, key)
	assert.Equal(t, "Påskafton hos mormor", title)

	key, title, err = parseNewKey("SE/custom.fika")
	require.NoError(t, err)
	assert.Equal(t, "custom.fika", key.Name)
	assert.Empty(t, title)

	_, _, err = parseNewKey("SE/!!!")
	assert.Error(t, err)
}

func TestRuleInputApplyChangesType(t *testing.T) {
	rec := rule.Record{Region: "SE", Name: "custom.x", Type: rule.KindFixed, Month: rule.Int(12), Day: rule.Int(24)}

	in := ruleInput{Type: strp("easter_relative"), Offset: intp(-2), Bank: boolp(true), Category: strp("Easter")}
	require.NoError(t, in.apply(&rec))

	assert.Equal(t, rule.KindEasterRelative, rec.Type)
	assert.Nil(t, rec.Month)
	assert.Nil(t, rec.Day)
	require.NotNil(t, rec.DaysOffset)
	assert.Equal(t, -2, *rec.DaysOffset)
	assert.True(t, rec.BankHoliday)
	assert.Equal(t, rule.CategoryEaster, rec.Category)
	assert.NoError(t, rule.Validate(rec))
}

func TestRuleInputApplyKeepsParamsForSameType(t *testing.T) {
	rec := rule.Record{Region: "SE", Name: "custom.x", Type: rule.KindFixed, Month: rule.Int(12), Day: rule.Int(24)}

	require.NoError(t, ruleInput{Type: strp("fixed"), Day: intp(23)}.apply(&rec))

	assert.Equal(t, 12, *rec.Month)
	assert.Equal(t, 23, *rec.Day)
}

func TestRuleInputSeason(t *testing.T) {
	rec := rule.Record{Name: "season.custom"}
	require.NoError(t, ruleInput{Type: strp("astronomical"), Season: strp("summer")}.apply(&rec))

	r, err := rule.Parse(rec)
	require.NoError(t, err)
	assert.Equal(t, rule.Astronomical{Event: rule.SummerSolstice}, r.Date)
}

func TestReadRuleInputOnlyChangedFlags(t *testing.T) {
	cmd := rulesAddCmd
	t.Cleanup(func() {
		for _, name := range []string{"month", "bank"} {
			f := cmd.Flags().Lookup(name)
			_ = f.Value.Set(f.DefValue)
			f.Changed = false
		}
	})
	require.NoError(t, cmd.Flags().Set("month", "dec"))
	require.NoError(t, cmd.Flags().Set("bank", "true"))

	in := readRuleInput(cmd)

	require.NotNil(t, in.Month)
	assert.Equal(t, "dec", *in.Month)
	require.NotNil(t, in.Bank)
	assert.True(t, *in.Bank)
	assert.Nil(t, in.Day)
	assert.Nil(t, in.Type)
	assert.False(t, in.empty())
	assert.True(t, ruleInput{}.empty())
}
