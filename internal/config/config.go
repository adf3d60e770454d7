// Package config loads the environment-variable configuration for both
// stacks from the process environment (optionally seeded from a .env
// file), mirroring the original's prefixed environs settings modules.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	cclog "github.com/ClusterCockpit/cc-lib/v2/ccLogger"
)

// MarketData holds the BETDAQ_AAPI_* market-data stack configuration.
type MarketData struct {
	Version               string
	StreamURL             string
	Timeout               time.Duration
	ConnectionTimeout     time.Duration
	ReceiveTimeout        time.Duration
	PingFrequency         time.Duration
	Username              string
	Password              string
	RefreshPeriod         time.Duration
	MetaRefreshPeriod     time.Duration
	MetaRefreshClassifiers map[int]string
	PricesNumber          int
	FilterByVolume        int
}

// HasCredentials reports whether a named (non-anonymous) session should
// be opened.
func (m MarketData) HasCredentials() bool {
	return m.Username != "" && m.Password != ""
}

// OrderStream holds the BETDAQ_LWPS_* binary order-stream configuration.
type OrderStream struct {
	Address           string
	PunterID          string
	PunterSessionKey  string
}

// Config is the full process configuration.
type Config struct {
	MarketData  MarketData
	OrderStream OrderStream
}

// defaultClassifiers mirrors the original's built-in META_REFRESH_CLASSIFIERS
// default, used when BETDAQ_AAPI_META_REFRESH_CLASSIFIERS is unset.
func defaultClassifiers() map[int]string {
	return map[int]string{
		190538:  "UK Racing",
		190539:  "Irish Racing",
		422497:  "Daily Cards",
		1190579: "RPTV (Sky Ch431)",
		1049075: "AU Races",
		1048931: "US Races",
	}
}

// Load reads configuration from the process environment. It first tries
// to load a .env file from the working directory; a missing file is not
// an error, matching how deployments without one simply rely on the
// environment already being populated.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		cclog.Warnf("config: failed to load .env file: %s", err.Error())
	}

	md, err := loadMarketData()
	if err != nil {
		return Config{}, err
	}
	os_, err := loadOrderStream()
	if err != nil {
		return Config{}, err
	}
	return Config{MarketData: md, OrderStream: os_}, nil
}

func loadMarketData() (MarketData, error) {
	streamURL := getenv("BETDAQ_AAPI_STREAM_URL", "")
	if streamURL == "" {
		return MarketData{}, fmt.Errorf("config: BETDAQ_AAPI_STREAM_URL is required")
	}

	timeout, err := getFloatSeconds("BETDAQ_AAPI_TIMEOUT", 10)
	if err != nil {
		return MarketData{}, err
	}
	connTimeout, err := getFloatSeconds("BETDAQ_AAPI_CONNECTION_TIMEOUT", 60)
	if err != nil {
		return MarketData{}, err
	}
	recvTimeout, err := getFloatSeconds("BETDAQ_AAPI_RECEIVE_TIMEOUT", 5)
	if err != nil {
		return MarketData{}, err
	}
	pingFreq, err := getFloatSeconds("BETDAQ_AAPI_PING_FREQUENCY", 15)
	if err != nil {
		return MarketData{}, err
	}
	refreshPeriod, err := getIntSeconds("BETDAQ_AAPI_REFRESH_PERIOD", 1)
	if err != nil {
		return MarketData{}, err
	}
	metaRefresh, err := getFloatSeconds("BETDAQ_AAPI_META_REFRESH_PERIOD", 3600)
	if err != nil {
		return MarketData{}, err
	}
	pricesNumber, err := getInt("BETDAQ_AAPI_PRICES_NUMBER", 10)
	if err != nil {
		return MarketData{}, err
	}
	filterByVolume, err := getInt("BETDAQ_AAPI_FILTER_BY_VOLUME", 1)
	if err != nil {
		return MarketData{}, err
	}
	classifiers, err := getClassifiers("BETDAQ_AAPI_META_REFRESH_CLASSIFIERS")
	if err != nil {
		return MarketData{}, err
	}

	return MarketData{
		Version:                getenv("BETDAQ_AAPI_VERSION", "2.2"),
		StreamURL:              streamURL,
		Timeout:                timeout,
		ConnectionTimeout:      connTimeout,
		ReceiveTimeout:         recvTimeout,
		PingFrequency:          pingFreq,
		Username:               getenv("BETDAQ_AAPI_USERNAME", ""),
		Password:               getenv("BETDAQ_AAPI_PASSWORD", ""),
		RefreshPeriod:          refreshPeriod,
		MetaRefreshPeriod:      metaRefresh,
		MetaRefreshClassifiers: classifiers,
		PricesNumber:           pricesNumber,
		FilterByVolume:         filterByVolume,
	}, nil
}

func loadOrderStream() (OrderStream, error) {
	address := getenv("BETDAQ_LWPS_URL", "")
	if address == "" {
		return OrderStream{}, fmt.Errorf("config: BETDAQ_LWPS_URL is required")
	}
	return OrderStream{
		Address:          address,
		PunterID:         getenv("BETDAQ_LWPS_PUNTER_ID", ""),
		PunterSessionKey: getenv("BETDAQ_LWPS_PUNTER_SESSION_KEY", ""),
	}, nil
}

func getenv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return def
}

func getInt(key string, def int) (int, error) {
	v, ok := os.LookupEnv(key)
	if !ok {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("config: invalid %s=%q: %w", key, v, err)
	}
	return n, nil
}

func getFloatSeconds(key string, defSeconds float64) (time.Duration, error) {
	v, ok := os.LookupEnv(key)
	if !ok {
		return time.Duration(defSeconds * float64(time.Second)), nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("config: invalid %s=%q: %w", key, v, err)
	}
	return time.Duration(f * float64(time.Second)), nil
}

func getIntSeconds(key string, defSeconds int) (time.Duration, error) {
	v, ok := os.LookupEnv(key)
	if !ok {
		return time.Duration(defSeconds) * time.Second, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("config: invalid %s=%q: %w", key, v, err)
	}
	return time.Duration(n) * time.Second, nil
}

// getClassifiers parses a comma-separated "id:label,id:label" list into
// the group-id-to-label map subscribed on startup and periodically
// refreshed; an unset variable falls back to the original's built-in
// default racing/sport classifier groups.
func getClassifiers(key string) (map[int]string, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return defaultClassifiers(), nil
	}
	out := make(map[int]string)
	for _, pair := range strings.Split(v, ",") {
		id, label, found := strings.Cut(pair, ":")
		if !found {
			return nil, fmt.Errorf("config: invalid %s entry %q, expected id:label", key, pair)
		}
		n, err := strconv.Atoi(strings.TrimSpace(id))
		if err != nil {
			return nil, fmt.Errorf("config: invalid %s entry %q: %w", key, pair, err)
		}
		out[n] = strings.TrimSpace(label)
	}
	return out, nil
}
