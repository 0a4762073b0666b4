package server

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/pelletier/go-toml"

	"github.com/birchwood-mc/birchwood/server/session"
)

// Config contains options for starting a Java-edition server.
type Config struct {
	// Log is the Logger to use for logging information. If nil, Log is set
	// to slog.Default().
	Log *slog.Logger
	// Address is the address the server listens on for new connections.
	Address string
	// Name is shown to clients in the server list before joining.
	Name string
	// MOTD is the message of the day shown below Name in the server list.
	MOTD string
	// MaxPlayers is the player count advertised in the server list. It does
	// not itself cap joins; an Allower is how joins are actually refused.
	MaxPlayers int32
	// CompressionThreshold is the packet body size, in bytes, past which a
	// connection's frames are zlib-compressed. A negative value disables
	// compression entirely and skips the SetCompression handshake.
	CompressionThreshold int32
	// AuthDisabled skips the encryption handshake and Mojang session
	// verification, deriving an offline-mode UUID from the player's name
	// instead. This should only be used for local testing.
	AuthDisabled bool
	// Allower decides which authenticated players may actually join.
	Allower session.Allower
	// LoginTimeout bounds how long a connection may spend between opening
	// the socket and completing Login, after which it is disconnected.
	LoginTimeout time.Duration
	// TickRate is the world engine's fixed tick rate in Hz. Defaults to 20.
	TickRate int
	// ViewDistance and SimDistance are advertised to clients in GameJoin.
	// The server does not derive a client's chunk view from them.
	ViewDistance, SimDistance int32
	// HashedSeed is reported to the client on join; it affects only
	// client-side visual effects (e.g. biome-dependent foliage noise), not
	// server-side generation.
	HashedSeed int64
	// DimensionType and DimensionName identify the single dimension new
	// players join into.
	DimensionType, DimensionName string
	// RegistryCodec is the NBT-encoded dimension/biome registry sent during
	// Join; Game must supply one built for the DimensionType/DimensionName
	// above.
	RegistryCodec []byte
}

// New creates a Server using the fields of conf, generating the key pair
// used for encrypted logins. Call Server.Listen to open the socket and begin
// accepting connections, then Server.Run to start the world tick loop.
func (conf Config) New() (*Server, error) {
	if conf.Log == nil {
		conf.Log = slog.Default()
	}
	if conf.Name == "" {
		conf.Name = "Birchwood Server"
	}
	if conf.Allower == nil {
		conf.Allower = session.OpenAllower{}
	}
	if conf.TickRate <= 0 {
		conf.TickRate = 20
	}
	if conf.ViewDistance <= 0 {
		conf.ViewDistance = 10
	}
	if conf.SimDistance <= 0 {
		conf.SimDistance = conf.ViewDistance
	}
	if conf.DimensionType == "" {
		conf.DimensionType = "minecraft:overworld"
	}
	if conf.DimensionName == "" {
		conf.DimensionName = "minecraft:overworld"
	}

	keys, err := session.NewKeyPair()
	if err != nil {
		return nil, fmt.Errorf("config: generate key pair: %w", err)
	}
	return newServer(conf, keys), nil
}

// UserConfig is the on-disk TOML configuration for a Birchwood server,
// converted to a Config via UserConfig.Config.
type UserConfig struct {
	Network struct {
		// Address is the address on which the server listens.
		Address string
		// CompressionThreshold is the packet size past which frames are
		// compressed. -1 disables compression.
		CompressionThreshold int32
	}
	Server struct {
		Name string
		MOTD string
		// AuthEnabled controls whether players must own a Mojang account to
		// join the server.
		AuthEnabled bool
		MaxPlayers  int32
		TickRate    int
	}
	World struct {
		ViewDistance int32
		SimDistance  int32
		Seed         int64
	}
	Whitelist struct {
		Enabled bool
		File    string
	}
}

// DefaultConfig returns a UserConfig filled out with default values.
func DefaultConfig() UserConfig {
	var c UserConfig
	c.Network.Address = ":25565"
	c.Network.CompressionThreshold = 256
	c.Server.Name = "Birchwood Server"
	c.Server.MOTD = "A Birchwood server"
	c.Server.AuthEnabled = true
	c.Server.MaxPlayers = 20
	c.Server.TickRate = 20
	c.World.ViewDistance = 10
	c.World.SimDistance = 10
	c.World.Seed = 0
	c.Whitelist.File = "whitelist.toml"
	return c
}

// Config converts uc into a Config ready to pass to Config.New, loading the
// whitelist file from disk (creating it if absent).
func (uc UserConfig) Config(log *slog.Logger) (Config, error) {
	conf := Config{
		Log:                  log,
		Address:              uc.Network.Address,
		Name:                 uc.Server.Name,
		MOTD:                 uc.Server.MOTD,
		MaxPlayers:           uc.Server.MaxPlayers,
		CompressionThreshold: uc.Network.CompressionThreshold,
		AuthDisabled:         !uc.Server.AuthEnabled,
		TickRate:             uc.Server.TickRate,
		ViewDistance:         uc.World.ViewDistance,
		SimDistance:          uc.World.SimDistance,
		HashedSeed:           uc.World.Seed,
		LoginTimeout:         30 * time.Second,
	}
	whitelistFile := strings.TrimSpace(uc.Whitelist.File)
	if whitelistFile == "" {
		whitelistFile = "whitelist.toml"
	}
	wl, err := LoadWhitelist(whitelistFile)
	if err != nil {
		return conf, fmt.Errorf("load whitelist: %w", err)
	}
	wl.SetEnabled(uc.Whitelist.Enabled)
	conf.Allower = wl
	return conf, nil
}

// ReadConfig reads and decodes a UserConfig from the TOML file at path,
// writing out DefaultConfig's encoding first if the file doesn't yet exist.
func ReadConfig(path string) (UserConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return UserConfig{}, fmt.Errorf("read config: %w", err)
		}
		def := DefaultConfig()
		encoded, mErr := toml.Marshal(def)
		if mErr != nil {
			return UserConfig{}, fmt.Errorf("encode default config: %w", mErr)
		}
		if wErr := os.WriteFile(path, encoded, 0644); wErr != nil {
			return UserConfig{}, fmt.Errorf("write default config: %w", wErr)
		}
		return def, nil
	}
	var uc UserConfig
	if err := toml.Unmarshal(data, &uc); err != nil {
		return UserConfig{}, fmt.Errorf("decode config: %w", err)
	}
	return uc, nil
}
