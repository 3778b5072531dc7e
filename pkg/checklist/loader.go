package checklist

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const (
	houseFileName    = "house_type_checklist.json"
	roomsFileName    = "room_type_checklist.json"
	productsFileName = "products_checklist.json"
	customFileName   = "custom_user_checklist.json"
)

// LoadHouseDefinition reads house_type_checklist.json from dataDir. A
// missing "default" or "house_types" key unmarshals to its Go zero value
// (nil slice/map), which every consumer already treats as empty — no
// injected-empty-shape step is needed the way the JSON-dict original
// required.
func LoadHouseDefinition(dataDir string) (HouseDefinition, error) {
	var def HouseDefinition
	if err := loadJSON(filepath.Join(dataDir, houseFileName), &def); err != nil {
		return HouseDefinition{}, err
	}
	return def, nil
}

// LoadRoomDefinition reads room_type_checklist.json from dataDir.
func LoadRoomDefinition(dataDir string) (RoomDefinition, error) {
	var def RoomDefinition
	if err := loadJSON(filepath.Join(dataDir, roomsFileName), &def); err != nil {
		return RoomDefinition{}, err
	}
	return def, nil
}

// LoadProductDefinition reads products_checklist.json from dataDir.
func LoadProductDefinition(dataDir string) (ProductDefinition, error) {
	var def ProductDefinition
	if err := loadJSON(filepath.Join(dataDir, productsFileName), &def); err != nil {
		return ProductDefinition{}, err
	}
	return def, nil
}

// LoadCustomChecklist reads custom_user_checklist.json from dataDir. A
// missing file is not an error — it means the household has no custom
// requirements — and yields an empty CustomChecklist rather than nil, so
// callers can always dereference the result.
func LoadCustomChecklist(dataDir string) (*CustomChecklist, error) {
	path := filepath.Join(dataDir, customFileName)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return &CustomChecklist{}, nil
	}

	var custom CustomChecklist
	if err := loadJSON(path, &custom); err != nil {
		return nil, err
	}
	return &custom, nil
}

func loadJSON(path string, dest any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}
