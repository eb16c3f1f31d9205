package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromKD(t *testing.T) {
	assertions := assert.New(t)

	cases := []struct {
		in   string
		want Fils
	}{
		{"10", 10000},
		{"10.000", 10000},
		{"10.5", 10500},
		{"0.050", 50},
		{"8.5", 8500},
		{" 15.000 ", 15000},
		{"-1.250", -1250},
		{".5", 500},
	}

	for _, c := range cases {
		got, err := FromKD(c.in)
		assertions.NoError(err, "вход %q", c.in)
		assertions.Equal(c.want, got, "вход %q", c.in)
	}
}

func TestFromKD_Invalid(t *testing.T) {
	assertions := assert.New(t)

	for _, in := range []string{"", "abc", "1.2345", "1,5", "1.2.3"} {
		_, err := FromKD(in)
		assertions.Error(err, "вход %q должен быть отвергнут", in)
	}
}

func TestString(t *testing.T) {
	assertions := assert.New(t)

	assertions.Equal("10.000", Fils(10000).String())
	assertions.Equal("15.000", Fils(15000).String())
	assertions.Equal("0.500", HalfKD.String())
	assertions.Equal("8.500", Fils(8500).String())
	assertions.Equal("-1.250", Fils(-1250).String())
}

func TestPercentOff(t *testing.T) {
	assertions := assert.New(t)

	// 10% от 20.000 = 2.000
	assertions.Equal(Fils(2000), Fils(20000).PercentOff(10))
	assertions.Equal(Zero, Fils(20000).PercentOff(0))
	assertions.Equal(Fils(20000), Fils(20000).PercentOff(100))
}

func TestRoundTrip(t *testing.T) {
	assertions := assert.New(t)

	for _, s := range []string{"0.001", "999.999", "12.340"} {
		f, err := FromKD(s)
		assertions.NoError(err)
		assertions.Equal(s, f.String())
	}
}
