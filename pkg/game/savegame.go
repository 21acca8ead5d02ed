package game

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// PlayerStatus 玩家状态
//
// 保存内容：
//   - 金币数量
//   - 当前形态（small / big / fire / ice）
//   - 最近一次访问的大地图（空字符串表示没有）
type PlayerStatus struct {
	Coins        int    `yaml:"coins"`
	Bonus        string `yaml:"bonus"`
	LastWorldmap string `yaml:"last-worldmap"` // 最近访问的大地图文件，恢复进度时优先于世界默认大地图
}

// LevelState 单个关卡的完成状态
type LevelState struct {
	Solved  bool `yaml:"solved"`
	Perfect bool `yaml:"perfect"`
}

// WorldmapState 单张大地图的存档状态
type WorldmapState struct {
	TuxX   int                    `yaml:"tux-x"`
	TuxY   int                    `yaml:"tux-y"`
	HasTux bool                   `yaml:"has-tux"` // 是否记录过 Tux 位置（否则使用出生点）
	Levels map[string]*LevelState `yaml:"levels"`
}

// SavegameData 存档文件内容
type SavegameData struct {
	Version   int                       `yaml:"version"`
	Player    PlayerStatus              `yaml:"player"`
	Worldmaps map[string]*WorldmapState `yaml:"worldmaps"`
	Levelset  map[string]*LevelState    `yaml:"levelset"` // 独立关卡集（无大地图）的完成状态
}

// SavegameVersion 存档格式版本号
const SavegameVersion = 1

// ErrUnsupportedVersion 存档由更新版本的游戏写入
var ErrUnsupportedVersion = errors.New("unsupported savegame version")

// Savegame 单个世界的存档
//
// 职责：
//   - 加载和保存玩家进度（YAML 格式，与项目其他数据文件保持一致）
//   - 记录最近访问的大地图
//   - 记录每张大地图上 Tux 的位置和关卡完成状态
//
// 加载永远不会向外返回错误：文件不存在或损坏时记录日志并使用默认数据。
type Savegame struct {
	filename string
	data     *SavegameData
	// readOnly 磁盘上的存档版本过新，不能被默认数据覆盖
	readOnly bool
}

// NewSavegame 创建存档对象（不会读取文件，需要调用 Load）
//
// 参数：
//   - filename: 存档文件路径（由 World.SavegameFilename() 推导）
func NewSavegame(filename string) *Savegame {
	return &Savegame{
		filename: filename,
		data:     defaultSavegameData(),
	}
}

func defaultSavegameData() *SavegameData {
	return &SavegameData{
		Version:   SavegameVersion,
		Player:    PlayerStatus{Bonus: "small"},
		Worldmaps: map[string]*WorldmapState{},
		Levelset:  map[string]*LevelState{},
	}
}

// Filename returns the path the savegame is read from and written to.
func (s *Savegame) Filename() string {
	return s.filename
}

// Load 从文件加载存档
//
// 文件不存在时静默使用默认数据；解析失败时记录警告并使用默认数据。
// 多次调用是幂等的：每次都从磁盘重新读取。
func (s *Savegame) Load() {
	data, err := s.read()
	s.readOnly = errors.Is(err, ErrUnsupportedVersion)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Printf("[Savegame] No savegame at %s, starting fresh", s.filename)
		} else {
			log.Printf("[Savegame] Warning: %v (using defaults)", err)
		}
		s.data = defaultSavegameData()
		return
	}
	s.data = data
	log.Printf("[Savegame] Loaded %s (last worldmap=%q)", s.filename, s.data.Player.LastWorldmap)
}

func (s *Savegame) read() (*SavegameData, error) {
	raw, err := os.ReadFile(s.filename)
	if err != nil {
		return nil, err
	}

	data := defaultSavegameData()
	if err := yaml.Unmarshal(raw, data); err != nil {
		return nil, fmt.Errorf("failed to parse savegame %s: %w", s.filename, err)
	}
	if data.Version > SavegameVersion {
		return nil, fmt.Errorf("savegame %s: %w %d (expected <= %d)",
			s.filename, ErrUnsupportedVersion, data.Version, SavegameVersion)
	}

	// 旧文件中可能缺失的映射
	if data.Worldmaps == nil {
		data.Worldmaps = map[string]*WorldmapState{}
	}
	if data.Levelset == nil {
		data.Levelset = map[string]*LevelState{}
	}
	// 空条目（例如 "a.stwm: null"）
	for name, wm := range data.Worldmaps {
		if wm == nil {
			wm = &WorldmapState{}
			data.Worldmaps[name] = wm
		}
		if wm.Levels == nil {
			wm.Levels = map[string]*LevelState{}
		}
		dropNilLevels(wm.Levels)
	}
	dropNilLevels(data.Levelset)
	return data, nil
}

func dropNilLevels(levels map[string]*LevelState) {
	for name, state := range levels {
		if state == nil {
			delete(levels, name)
		}
	}
}

// Save 保存存档到文件
//
// 返回：
//   - error: 如果创建目录、序列化或写入失败返回错误；
//     磁盘上的存档版本过新时拒绝覆盖
func (s *Savegame) Save() error {
	if s.filename == "" {
		return fmt.Errorf("savegame has no filename")
	}
	if s.readOnly {
		return fmt.Errorf("refusing to overwrite %s: %w", s.filename, ErrUnsupportedVersion)
	}
	if err := os.MkdirAll(filepath.Dir(s.filename), 0755); err != nil {
		return fmt.Errorf("failed to create savegame directory: %w", err)
	}

	data, err := yaml.Marshal(s.data)
	if err != nil {
		return fmt.Errorf("failed to marshal savegame: %w", err)
	}

	if err := os.WriteFile(s.filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write savegame file: %w", err)
	}
	return nil
}

// PlayerStatus 返回可修改的玩家状态
func (s *Savegame) PlayerStatus() *PlayerStatus {
	return &s.data.Player
}

// WorldmapState 返回指定大地图的存档状态，不存在时创建
//
// 参数：
//   - worldmap: 大地图文件名
func (s *Savegame) WorldmapState(worldmap string) *WorldmapState {
	wm := s.data.Worldmaps[worldmap]
	if wm == nil {
		wm = &WorldmapState{Levels: map[string]*LevelState{}}
		s.data.Worldmaps[worldmap] = wm
	}
	if wm.Levels == nil {
		wm.Levels = map[string]*LevelState{}
	}
	return wm
}

// SetTuxPosition 记录 Tux 在大地图上的位置
func (s *Savegame) SetTuxPosition(worldmap string, x, y int) {
	wm := s.WorldmapState(worldmap)
	wm.TuxX, wm.TuxY, wm.HasTux = x, y, true
}

// SetLevelSolved 标记大地图上的关卡已完成
//
// perfect 只会从 false 变为 true，不会被后续的非完美通关覆盖。
func (s *Savegame) SetLevelSolved(worldmap, level string, perfect bool) {
	wm := s.WorldmapState(worldmap)
	state := wm.Levels[level]
	if state == nil {
		state = &LevelState{}
		wm.Levels[level] = state
	}
	state.Solved = true
	state.Perfect = state.Perfect || perfect
}

// IsLevelSolved 检查大地图上的关卡是否已完成
func (s *Savegame) IsLevelSolved(worldmap, level string) bool {
	wm := s.data.Worldmaps[worldmap]
	if wm == nil {
		return false
	}
	state := wm.Levels[level]
	return state != nil && state.Solved
}

// SetLevelsetSolved 标记独立关卡集中的关卡已完成
func (s *Savegame) SetLevelsetSolved(level string) {
	state := s.data.Levelset[level]
	if state == nil {
		state = &LevelState{}
		s.data.Levelset[level] = state
	}
	state.Solved = true
}

// IsLevelsetSolved 检查独立关卡集中的关卡是否已完成
func (s *Savegame) IsLevelsetSolved(level string) bool {
	state := s.data.Levelset[level]
	return state != nil && state.Solved
}
