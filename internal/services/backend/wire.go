package backend

import "github.com/bbernstein/lacylights-mcp/internal/lighting"

type wireChannel struct {
	Offset       int    `json:"offset"`
	Name         string `json:"name"`
	Type         string `json:"type"`
	MinValue     int    `json:"minValue"`
	MaxValue     int    `json:"maxValue"`
	DefaultValue int    `json:"defaultValue"`
}

type wireFixture struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Manufacturer string        `json:"manufacturer"`
	Model        string        `json:"model"`
	Type         string        `json:"type"`
	ModeName     *string       `json:"modeName"`
	Universe     int           `json:"universe"`
	StartChannel int           `json:"startChannel"`
	Tags         []string      `json:"tags"`
	Channels     []wireChannel `json:"channels"`
}

func (f wireFixture) toFixture() lighting.FixtureInstance {
	fx := lighting.FixtureInstance{
		ID:           f.ID,
		Name:         f.Name,
		Manufacturer: f.Manufacturer,
		Model:        f.Model,
		Type:         fixtureType(f.Type),
		Universe:     f.Universe,
		StartChannel: f.StartChannel,
		Tags:         f.Tags,
		Channels:     make([]lighting.Channel, len(f.Channels)),
	}
	if f.ModeName != nil {
		fx.ModeName = *f.ModeName
	}
	for i, ch := range f.Channels {
		fx.Channels[i] = lighting.Channel{
			Offset:       ch.Offset,
			Name:         ch.Name,
			Type:         lighting.ChannelType(ch.Type),
			MinValue:     ch.MinValue,
			MaxValue:     ch.MaxValue,
			DefaultValue: ch.DefaultValue,
		}
	}
	return fx
}

func fixtureType(s string) lighting.FixtureType {
	switch t := lighting.FixtureType(s); t {
	case lighting.FixtureLEDPar, lighting.FixtureMovingHead, lighting.FixtureStrobe, lighting.FixtureDimmer:
		return t
	}
	return lighting.FixtureOther
}

type wireFixtureValue struct {
	Fixture struct {
		ID string `json:"id"`
	} `json:"fixture"`
	Channels   []lighting.ChannelValue `json:"channels"`
	SceneOrder *int                    `json:"sceneOrder"`
}

type wireLook struct {
	ID            string             `json:"id"`
	Name          string             `json:"name"`
	Description   *string            `json:"description"`
	FixtureValues []wireFixtureValue `json:"fixtureValues"`
}

func (w wireLook) toLook() lighting.Look {
	look := lighting.Look{ID: w.ID, Name: w.Name}
	if w.Description != nil {
		look.Description = *w.Description
	}
	for _, fv := range w.FixtureValues {
		look.FixtureValues = append(look.FixtureValues, lighting.FixtureValues{
			FixtureID: fv.Fixture.ID,
			Channels:  fv.Channels,
			Order:     fv.SceneOrder,
		})
	}
	return look
}

// fixtureValuesInput converts sparse values to the backend's input shape.
func fixtureValuesInput(values []lighting.FixtureValues) []map[string]any {
	out := make([]map[string]any, 0, len(values))
	for _, fv := range values {
		channels := make([]map[string]any, len(fv.Channels))
		for i, cv := range fv.Channels {
			channels[i] = map[string]any{"offset": cv.Offset, "value": cv.Value}
		}
		entry := map[string]any{"fixtureId": fv.FixtureID, "channels": channels}
		if fv.Order != nil {
			entry["sceneOrder"] = *fv.Order
		}
		out = append(out, entry)
	}
	return out
}
