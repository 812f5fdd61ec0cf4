package core

import "testing"

func TestDownloadName(t *testing.T) {
	tests := []struct {
		name     string
		original string
		want     string
	}{
		{name: "jpeg", original: "holiday.jpg", want: "holiday-white-border.png"},
		{name: "only last extension", original: "archive.tar.gz", want: "archive.tar-white-border.png"},
		{name: "no extension", original: "scan", want: "scan-white-border.png"},
		{name: "trailing dot kept", original: "photo.", want: "photo.-white-border.png"},
		{name: "dotfile", original: ".png", want: "-white-border.png"},
		{name: "empty", original: "", want: "white-border.png"},
		{name: "blank", original: "   ", want: "white-border.png"},
		{name: "directory stripped", original: "/tmp/pics/IMG_0001.HEIC", want: "IMG_0001-white-border.png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DownloadName(tt.original); got != tt.want {
				t.Errorf("DownloadName(%q) = %q, want %q", tt.original, got, tt.want)
			}
		})
	}
}
