package common

import "testing"

type sample struct {
	Name  string `validate:"required"`
	Port  int    `validate:"min=1,max=65535"`
	Color string `validate:"hexcolor"`
	Sizes []int  `validate:"dive,min=16"`
}

func TestValidateStruct(t *testing.T) {
	tests := []struct {
		name    string
		input   sample
		wantErr bool
	}{
		{name: "valid", input: sample{Name: "a", Port: 8080, Color: "#ffffff", Sizes: []int{16, 512}}},
		{name: "missing name", input: sample{Port: 8080, Color: "#fff"}, wantErr: true},
		{name: "port out of range", input: sample{Name: "a", Port: 70000, Color: "#fff"}, wantErr: true},
		{name: "bad color", input: sample{Name: "a", Port: 1, Color: "white"}, wantErr: true},
		{name: "size too small", input: sample{Name: "a", Port: 1, Color: "#fff", Sizes: []int{8}}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("Expected error=%v, got %v", tt.wantErr, err)
			}
		})
	}
}
