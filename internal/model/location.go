package model

import "time"

// ==================== 位置级联模型 ====================
// 国家 -> 省份 -> 城市 -> 片区，逐级外键引用上一级

// Country 国家
type Country struct {
	ID        int64 `gorm:"primaryKey;autoIncrement"`
	CreatedAt time.Time
	Name      string `gorm:"size:64;not null;comment:国家名称"`
	Code      string `gorm:"size:8;uniqueIndex;comment:国家代码"`
}

func (*Country) TableName() string {
	return "countries"
}

// State 省份
type State struct {
	ID        int64 `gorm:"primaryKey;autoIncrement"`
	CreatedAt time.Time
	CountryID int64  `gorm:"index;not null;comment:所属国家ID"`
	Name      string `gorm:"size:64;not null;comment:省份名称"`
}

func (*State) TableName() string {
	return "states"
}

// City 城市
type City struct {
	ID        int64 `gorm:"primaryKey;autoIncrement"`
	CreatedAt time.Time
	StateID   int64  `gorm:"index;not null;comment:所属省份ID"`
	Name      string `gorm:"size:64;not null;comment:城市名称"`
}

func (*City) TableName() string {
	return "cities"
}

// Locality 片区
// 城市下可以没有片区数据，此时表单侧降级为自由文本输入
type Locality struct {
	ID        int64 `gorm:"primaryKey;autoIncrement"`
	CreatedAt time.Time
	CityID    int64  `gorm:"index;not null;comment:所属城市ID"`
	Name      string `gorm:"size:128;not null;comment:片区名称"`
	Pincode   string `gorm:"size:6;comment:邮编"`
}

func (*Locality) TableName() string {
	return "localities"
}
