package game

import (
	"fmt"
	"log"
	"sync"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

// LevelSaveState 待恢复关卡标记
//
// 记录“某张大地图里有一个关卡等待重新进入”：
//   - Basedir: 世界根目录
//   - Level:   关卡完整路径（basedir + "/" + 关卡名）
//   - Sector:  中断时所在的区段
//
// 要么三个字段都为空（没有待恢复的关卡），要么 Level 和 Sector 都非空，
// 且只在 Basedir 指向的世界中有意义。
type LevelSaveState struct {
	Basedir string `yaml:"basedir"`
	Level   string `yaml:"level"`
	Sector  string `yaml:"sector"`
}

// Pending reports whether the marker names a level and sector to re-enter.
func (s LevelSaveState) Pending() bool {
	return s.Level != "" && s.Sector != ""
}

// 存储路径常量
const (
	resumeObject   = "resume"
	resumeProperty = "level"
)

// ResumeStore 待恢复关卡标记的存储
//
// 由会话控制器独占持有，不是全局单例。标记通过 gdata 持久化，
// 使进程重启后仍能发现上一次被中断的关卡。
//
// 生命周期：从大地图进入关卡时写入；下一次进入该大地图时读取并校验，
// 校验通过后被消费（Loading 变为 false）。
type ResumeStore struct {
	mu           sync.Mutex
	gdataManager *gdata.Manager // 可为 nil（降级模式，仅内存）
	state        LevelSaveState
	loading      bool
}

// NewResumeStore 创建标记存储并读取已持久化的标记
//
// 参数：
//   - gdataManager: gdata 跨平台存储管理器，可为 nil（降级模式，标记只保存在内存中）
//
// 读取失败不是致命错误：记录警告并视为没有待恢复的关卡。
func NewResumeStore(gdataManager *gdata.Manager) *ResumeStore {
	rs := &ResumeStore{gdataManager: gdataManager}

	state, err := rs.load()
	if err != nil {
		log.Printf("[ResumeStore] Warning: Failed to load resume marker: %v (ignoring)", err)
		return rs
	}
	rs.state = state
	rs.loading = state.Pending()
	if rs.loading {
		log.Printf("[ResumeStore] Found pending level %s (sector %s)", state.Level, state.Sector)
	}
	return rs
}

func (rs *ResumeStore) load() (LevelSaveState, error) {
	if rs.gdataManager == nil {
		return LevelSaveState{}, nil
	}
	if !rs.gdataManager.ObjectPropExists(resumeObject, resumeProperty) {
		return LevelSaveState{}, nil
	}

	data, err := rs.gdataManager.LoadObjectProp(resumeObject, resumeProperty)
	if err != nil {
		return LevelSaveState{}, fmt.Errorf("failed to load resume marker: %w", err)
	}

	var state LevelSaveState
	if err := yaml.Unmarshal(data, &state); err != nil {
		return LevelSaveState{}, fmt.Errorf("failed to unmarshal resume marker: %w", err)
	}
	return state, nil
}

func (rs *ResumeStore) persist() error {
	if rs.gdataManager == nil {
		return nil
	}

	data, err := yaml.Marshal(rs.state)
	if err != nil {
		return fmt.Errorf("failed to marshal resume marker: %w", err)
	}
	if err := rs.gdataManager.SaveObjectProp(resumeObject, resumeProperty, data); err != nil {
		return fmt.Errorf("failed to save resume marker: %w", err)
	}
	return nil
}

// Loading 报告是否存在尚未被消费的待恢复关卡
func (rs *ResumeStore) Loading() bool {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	return rs.loading
}

// Get 返回当前标记的副本
func (rs *ResumeStore) Get() LevelSaveState {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	return rs.state
}

// Save 覆盖并持久化标记
//
// 写入一个待恢复的标记也会让 Loading 变为 true：
// 如果进程在关卡中被中断，下一次进入大地图时会恢复该关卡。
func (rs *ResumeStore) Save(state LevelSaveState) error {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	rs.state = state
	rs.loading = state.Pending()
	return rs.persist()
}

// SaveArrival 记录“到达某个世界的大地图”
//
// 只覆盖 Basedir，Level 和 Sector 保持原值（部分覆盖）。
// 这是刻意保留的行为：到达标记和待恢复标记共用同一条记录。
func (rs *ResumeStore) SaveArrival(basedir string) error {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	rs.state.Basedir = basedir
	return rs.persist()
}

// Consume 标记已被使用，之后 Loading 返回 false
//
// 持久化的记录不变，直到下一次 Save 或 Clear。
func (rs *ResumeStore) Consume() {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	rs.loading = false
}

// Clear 清空关卡和区段（保留 Basedir）并持久化
//
// 在关卡正常结束或被放弃时调用。
func (rs *ResumeStore) Clear() error {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	rs.state.Level = ""
	rs.state.Sector = ""
	rs.loading = false
	return rs.persist()
}
