package domain

import "testing"

func TestValidDuration(t *testing.T) {
	tests := []struct {
		name          string
		treatmentType string
		minutes       int
		want          bool
	}{
		{"physio fixed length", TreatmentPhysiotherapy, 45, true},
		{"physio wrong length", TreatmentPhysiotherapy, 60, false},
		{"massage 40", TreatmentSportsMassage, 40, true},
		{"massage 45", TreatmentSportsMassage, 45, true},
		{"massage 60", TreatmentSportsMassage, 60, true},
		{"massage 30", TreatmentSportsMassage, 30, false},
		{"unknown type", "Acupuncture", 45, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := ValidDuration(tc.treatmentType, tc.minutes); got != tc.want {
				t.Errorf("ValidDuration(%q, %d) = %v, want %v", tc.treatmentType, tc.minutes, got, tc.want)
			}
		})
	}
}

func TestValidRole(t *testing.T) {
	for _, role := range []string{RoleAdmin, RoleTherapist} {
		if !ValidRole(role) {
			t.Errorf("ValidRole(%q) = false", role)
		}
	}
	if ValidRole("receptionist") {
		t.Error("ValidRole accepted an unknown role")
	}
}
