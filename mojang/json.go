package mojang

import (
	"encoding/base64"
	"encoding/json"
	"strings"

	"github.com/google/uuid"
)

// JSON-unmarshallable UUID implementation

type jsonUUID uuid.UUID

func (u *jsonUUID) UnmarshalJSON(p []byte) error {
	v, err := uuid.Parse(strings.Trim(string(p), `"`))
	if err != nil {
		return err
	}

	*u = jsonUUID(v)
	return nil
}

// Profile

type TextureKind string

const (
	TextureSkin TextureKind = "SKIN"
	TextureCape TextureKind = "CAPE"
)

type Texture struct {
	URL   string
	Model string // "slim" for slim-armed skins, empty for the classic model
}

type Profile struct {
	ID       uuid.UUID
	Name     string
	Legacy   bool
	Demo     bool
	Textures map[TextureKind]Texture
}

type profileJSONMapping struct {
	ID         *jsonUUID                    `json:"id"`
	Name       string                       `json:"name"`
	Legacy     bool                         `json:"legacy"`
	Demo       bool                         `json:"demo"`
	Properties []profilePropertyJSONMapping `json:"properties"`
}

type profilePropertyJSONMapping struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type texturesJSONMapping struct {
	Textures map[string]struct {
		URL      string `json:"url"`
		Metadata struct {
			Model string `json:"model"`
		} `json:"metadata"`
	} `json:"textures"`
}

// Decoders
//
// Each decoder maps the raw body of a successful response onto its domain
// object. Every structural violation surfaces as *MalformedResponseError;
// no other error type may escape.

func decodeUUIDLookup(body []byte) (uuid.UUID, error) {
	m := &profileJSONMapping{}
	if err := json.Unmarshal(body, m); err != nil {
		return uuid.Nil, malformedf("profile lookup: %s", err)
	}
	if m.ID == nil {
		return uuid.Nil, malformedf("profile lookup: missing id")
	}

	return uuid.UUID(*m.ID), nil
}

func decodeUUIDBatch(body []byte) (map[string]uuid.UUID, error) {
	var ms []profileJSONMapping
	if err := json.Unmarshal(body, &ms); err != nil {
		return nil, malformedf("batch profile lookup: %s", err)
	}

	ids := make(map[string]uuid.UUID, len(ms))
	for i, m := range ms {
		if m.ID == nil {
			return nil, malformedf("batch profile lookup: entry %d missing id", i)
		}
		if m.Name == "" {
			return nil, malformedf("batch profile lookup: entry %d missing name", i)
		}
		ids[m.Name] = uuid.UUID(*m.ID)
	}

	return ids, nil
}

func decodeName(body []byte) (string, error) {
	m := &profileJSONMapping{}
	if err := json.Unmarshal(body, m); err != nil {
		return "", malformedf("profile: %s", err)
	}
	if m.Name == "" {
		return "", malformedf("profile: missing name")
	}

	return m.Name, nil
}

func decodeProfile(body []byte) (*Profile, error) {
	m := &profileJSONMapping{}
	if err := json.Unmarshal(body, m); err != nil {
		return nil, malformedf("profile: %s", err)
	}
	if m.ID == nil {
		return nil, malformedf("profile: missing id")
	}
	if m.Name == "" {
		return nil, malformedf("profile: missing name")
	}

	p := &Profile{
		ID:       uuid.UUID(*m.ID),
		Name:     m.Name,
		Legacy:   m.Legacy,
		Demo:     m.Demo,
		Textures: map[TextureKind]Texture{},
	}
	for _, prop := range m.Properties {
		if prop.Name != "textures" {
			continue
		}

		textures, err := decodeTextures(prop.Value)
		if err != nil {
			return nil, err
		}
		p.Textures = textures
	}

	return p, nil
}

func decodeTextures(value string) (map[TextureKind]Texture, error) {
	decoded, err := base64.StdEncoding.DecodeString(value)
	if err != nil {
		return nil, malformedf("textures property: invalid base64: %s", err)
	}

	m := &texturesJSONMapping{}
	if err := json.Unmarshal(decoded, m); err != nil {
		return nil, malformedf("textures property: %s", err)
	}

	textures := make(map[TextureKind]Texture, len(m.Textures))
	for kind, t := range m.Textures {
		textures[TextureKind(kind)] = Texture{URL: t.URL, Model: t.Metadata.Model}
	}

	return textures, nil
}

func decodeBlockedServers(body []byte) map[string]struct{} {
	hashes := make(map[string]struct{})
	for _, line := range strings.Split(string(body), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			hashes[line] = struct{}{}
		}
	}

	return hashes
}
