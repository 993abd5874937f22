package inspect

import "testing"

func TestClassify(t *testing.T) {
	cases := []struct {
		name string
		want Class
	}{
		{"Walk", Public},
		{"walk", Public},
		{"x", Public},
		{"_walk", Private},
		{"_", Private},
		{"__walk", Private},
		{"walk__", Public},
		{"__init__", Magic},
		{"__", Magic},
		{"___", Magic},
	}
	for _, c := range cases {
		if got := Classify(c.name); got != c.want {
			t.Errorf("Classify(%q) = %v, want %v", c.name, got, c.want)
		}
	}
}

func TestFilterAdmits(t *testing.T) {
	cases := []struct {
		filter Filter
		class  Class
		want   bool
	}{
		{Filter{}, Public, true},
		{Filter{}, Private, false},
		{Filter{}, Magic, false},
		{Filter{Private: true}, Private, true},
		{Filter{Private: true}, Magic, false},
		{Filter{Magic: true}, Magic, true},
		{Filter{Magic: true}, Private, false},
		{Filter{Private: true, Magic: true}, Private, true},
		{Filter{Private: true, Magic: true}, Magic, true},
		{Filter{Private: true, Magic: true}, Public, true},
	}
	for _, c := range cases {
		if got := c.filter.Admits(c.class); got != c.want {
			t.Errorf("%+v.Admits(%v) = %v, want %v", c.filter, c.class, got, c.want)
		}
	}
}

func TestClassString(t *testing.T) {
	if Public.String() != "public" || Private.String() != "private" || Magic.String() != "magic" {
		t.Errorf("unexpected Class strings: %v %v %v", Public, Private, Magic)
	}
}
