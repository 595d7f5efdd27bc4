package core

import (
	"fmt"
	"strings"

	"github.com/CodMac/pydiagram-lens/model"
)

// FilterLevel 定义过滤的严苛程度
type FilterLevel int

const (
	LevelRaw      FilterLevel = iota // 不进行任何过滤，保留所有原始关系
	LevelBalanced                    // 过滤掉指向语言内建类型的继承（如 object）
	LevelPure                        // 只保留源码中定义的类之间的关系, 丢弃占位类
)

// ParseFilterLevel 解析 "raw" / "balanced" / "pure" 或 0/1/2
func ParseFilterLevel(s string) (FilterLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "0", "raw":
		return LevelRaw, nil
	case "1", "balanced":
		return LevelBalanced, nil
	case "2", "pure":
		return LevelPure, nil
	}
	return LevelRaw, fmt.Errorf("unknown filter level: %q", s)
}

// NoiseFilter 接口定义
type NoiseFilter interface {
	IsNoise(rel model.RelationshipInfo) bool
	SetLevel(level FilterLevel)
}

// NoiseFilterFactory 按过滤等级创建过滤器, 每次调用返回新实例, 避免在不同运行之间共享可变等级
type NoiseFilterFactory func(level FilterLevel) NoiseFilter

var noiseFilterFactories = make(map[Language]NoiseFilterFactory)

// RegisterNoiseFilter 注册一个语言与其对应的 NoiseFilter 工厂函数
func RegisterNoiseFilter(lang Language, factory NoiseFilterFactory) {
	noiseFilterFactories[lang] = factory
}

// GetNoiseFilter 根据语言类型与等级创建 NoiseFilter 实例。
func GetNoiseFilter(lang Language, level FilterLevel) NoiseFilter {
	factory, ok := noiseFilterFactories[lang]
	if !ok {
		// 如果没注册，返回一个默认不进行过滤的过滤器，防止程序奔溃
		return &DefaultNoiseFilter{Level: level}
	}

	return factory(level)
}

// DefaultNoiseFilter 提供基础的等级管理，供各语言 Filter 嵌入
type DefaultNoiseFilter struct {
	Level FilterLevel
}

func (d *DefaultNoiseFilter) SetLevel(level FilterLevel) {
	d.Level = level
}

func (d *DefaultNoiseFilter) IsNoise(rel model.RelationshipInfo) bool { return false }
