package controllers

import (
	"net/http"
	"signin/internal/models"
	"signin/internal/providers"
	"signin/internal/services"
	"signin/internal/structures"
)

// ProfileController is the settings surface: the only writer of the profile.
type ProfileController struct {
	logger   providers.Logger
	profiles services.ProfileStoreInterface
	service  services.SignInServiceInterface
	conf     *structures.Config
}

type settingsResponse struct {
	Profile       models.Profile `json:"profile"`
	Courses       []string       `json:"courses"`
	RemoteEnabled bool           `json:"remoteEnabled"`
	BaseURL       string         `json:"baseUrl"`
	KeyPreview    string         `json:"keyPreview"`
}

func NewProfileController(logger providers.Logger, profiles services.ProfileStoreInterface, service services.SignInServiceInterface, conf *structures.Config) *ProfileController {
	return &ProfileController{
		logger:   logger,
		profiles: profiles,
		service:  service,
		conf:     conf,
	}
}

func (pc *ProfileController) GetProfile(w http.ResponseWriter, r *http.Request) {
	p, err := pc.profiles.Load(r.Context())
	if err != nil {
		writeError(w, pc.logger, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (pc *ProfileController) SaveProfile(w http.ResponseWriter, r *http.Request) {
	var p models.Profile
	if err := decodeBody(w, r, &p); err != nil {
		writeError(w, pc.logger, r, err)
		return
	}

	saved, err := pc.profiles.Save(r.Context(), p)
	if err != nil {
		writeError(w, pc.logger, r, err)
		return
	}
	pc.logger.Infof(providers.TypeApp, "Profile saved: nickname=%q", saved.Nickname)
	writeJSON(w, http.StatusOK, saved)
}

func (pc *ProfileController) Settings(w http.ResponseWriter, r *http.Request) {
	p, err := pc.profiles.Load(r.Context())
	if err != nil {
		writeError(w, pc.logger, r, err)
		return
	}
	writeJSON(w, http.StatusOK, settingsResponse{
		Profile:       p,
		Courses:       pc.service.Courses(),
		RemoteEnabled: pc.conf.Remote.Enabled,
		BaseURL:       pc.conf.Remote.BaseURL,
		KeyPreview:    services.KeyPreview(pc.conf.Remote.Key),
	})
}

func (pc *ProfileController) Courses(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"courses": pc.service.Courses()})
}
