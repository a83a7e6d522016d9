package service

import "github.com/railscope/railscope/internal/api"

// Set groups one service per backend resource over a shared Requester.
type Set struct {
	Auth        *Auth
	Users       *Users
	Divisions   *Divisions
	Files       *Files
	Transcripts *Transcripts
	Dashboard   *Dashboard
	Admin       *Admin
	Upload      *Upload
	Keywords    *Keywords
}

// New wires every service to r.
func New(r api.Requester) *Set {
	return &Set{
		Auth:        NewAuth(r),
		Users:       &Users{api: r},
		Divisions:   &Divisions{api: r},
		Files:       &Files{api: r},
		Transcripts: &Transcripts{api: r},
		Dashboard:   &Dashboard{api: r},
		Admin:       &Admin{api: r},
		Upload:      &Upload{api: r},
		Keywords:    &Keywords{api: r},
	}
}
