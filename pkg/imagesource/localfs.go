package imagesource

import (
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

var supportedExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".webp": true, ".bmp": true, ".tiff": true,
}

// RoomImages is one room's raw image bytes, read in filename order.
type RoomImages struct {
	RoomID string
	Images [][]byte
}

// CollectSimulationImages reads every room* subdirectory of
// simulationPath (sorted by name) and returns each room's image bytes
// alongside the flattened list of every image across all rooms. Rooms
// with no readable images are logged and omitted, mirroring the
// original's per-room tolerance; a simulation directory with no room*
// subdirectories, or with every room empty, is an error.
func CollectSimulationImages(simulationPath string) (all [][]byte, rooms []RoomImages, err error) {
	info, err := os.Stat(simulationPath)
	if err != nil || !info.IsDir() {
		return nil, nil, ErrSimulationNotFound
	}

	entries, err := os.ReadDir(simulationPath)
	if err != nil {
		return nil, nil, err
	}

	var roomDirs []string
	for _, e := range entries {
		if e.IsDir() && strings.HasPrefix(e.Name(), "room") {
			roomDirs = append(roomDirs, e.Name())
		}
	}
	if len(roomDirs) == 0 {
		return nil, nil, ErrNoRoomDirectories
	}
	sort.Strings(roomDirs)

	for _, roomID := range roomDirs {
		images := loadRoomImages(filepath.Join(simulationPath, roomID))
		if len(images) == 0 {
			slog.Warn("room has no valid images, skipping", "room", roomID)
			continue
		}
		rooms = append(rooms, RoomImages{RoomID: roomID, Images: images})
		all = append(all, images...)
	}

	if len(rooms) == 0 {
		return nil, nil, ErrNoRoomsWithImages
	}
	return all, rooms, nil
}

func loadRoomImages(roomDir string) [][]byte {
	entries, err := os.ReadDir(roomDir)
	if err != nil {
		slog.Warn("failed to read room directory", "dir", roomDir, "error", err)
		return nil
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if supportedExtensions[strings.ToLower(filepath.Ext(e.Name()))] {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	images := make([][]byte, 0, len(names))
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(roomDir, name))
		if err != nil {
			slog.Warn("failed to read image file", "file", name, "error", err)
			continue
		}
		images = append(images, data)
	}
	return images
}

// SimulationInfo summarizes one available simulation directory for the
// listing endpoint.
type SimulationInfo struct {
	Name   string
	Path   string
	Rooms  int
	Images int
}

// ListAvailableSimulations enumerates subdirectories of demoRoot that
// contain at least one room* directory (whether or not it holds images;
// the image count is reported alongside), for the
// "what can I simulate" listing endpoint.
func ListAvailableSimulations(demoRoot string) ([]SimulationInfo, error) {
	entries, err := os.ReadDir(demoRoot)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var found []SimulationInfo
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		itemPath := filepath.Join(demoRoot, e.Name())
		subEntries, err := os.ReadDir(itemPath)
		if err != nil {
			continue
		}

		rooms, images := 0, 0
		for _, sub := range subEntries {
			if !sub.IsDir() || !strings.HasPrefix(sub.Name(), "room") {
				continue
			}
			rooms++
			roomEntries, err := os.ReadDir(filepath.Join(itemPath, sub.Name()))
			if err != nil {
				continue
			}
			for _, f := range roomEntries {
				if !f.IsDir() && supportedExtensions[strings.ToLower(filepath.Ext(f.Name()))] {
					images++
				}
			}
		}

		if rooms > 0 {
			found = append(found, SimulationInfo{Name: e.Name(), Path: e.Name(), Rooms: rooms, Images: images})
		}
	}

	return found, nil
}
