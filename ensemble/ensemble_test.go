package ensemble

import "testing"

func TestLabelNone(t *testing.T) {
	var l Label
	l.Charset = CharsetNone
	if !l.None() {
		t.Errorf("Label with CharsetNone should report None()")
	}
	l.Charset = 0
	if l.None() {
		t.Errorf("Label with charset 0 should not report None()")
	}
}

func TestAudioServiceNone(t *testing.T) {
	a := AudioService{SubChID: SubChIDNone}
	if !a.None() {
		t.Errorf("AudioService with SubChIDNone should report None()")
	}
}

func TestListedServiceLess(t *testing.T) {
	a := ListedService{PriCompSubChID: 1, SID: 10, SCIdS: SCIdSNone}
	b := ListedService{PriCompSubChID: 2, SID: 5, SCIdS: SCIdSNone}
	if !a.Less(b) {
		t.Errorf("expected a < b by PriCompSubChID")
	}
	c := ListedService{PriCompSubChID: 1, SID: 5, SCIdS: SCIdSNone}
	if !c.Less(a) {
		t.Errorf("expected c < a by SID when PriCompSubChID ties")
	}
}

func TestListedServiceHasSLSAndIsPrimary(t *testing.T) {
	primary := ListedService{SCIdS: SCIdSNone, SLSAppType: SLSAppTypeNone}
	if !primary.IsPrimary() {
		t.Errorf("expected IsPrimary() for SCIdSNone")
	}
	if primary.HasSLS() {
		t.Errorf("expected no SLS for SLSAppTypeNone")
	}
	withSLS := ListedService{SCIdS: 2, SLSAppType: 12}
	if withSLS.IsPrimary() {
		t.Errorf("expected secondary component to not be primary")
	}
	if !withSLS.HasSLS() {
		t.Errorf("expected SLS for app type 12")
	}
}

func TestDateTimeNoneAndMilliseconds(t *testing.T) {
	var d DateTime
	d.Milliseconds = MillisecondsNone
	if !d.None() {
		t.Errorf("zero-value DateTime should report None()")
	}
	if d.HasMilliseconds() {
		t.Errorf("MillisecondsNone should report HasMilliseconds() == false")
	}
}
