// Package loader 负责场景、历史、周数据与解文件的读写
package loader

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/paiban/roster/pkg/errors"
	"github.com/paiban/roster/pkg/model"
)

// 场景文件结构
type scenarioFile struct {
	ID                            string           `json:"id"`
	NumberOfWeeks                 int              `json:"numberOfWeeks"`
	Skills                        []string         `json:"skills"`
	ShiftTypes                    []shiftTypeFile  `json:"shiftTypes"`
	ForbiddenShiftTypeSuccessions []successionFile `json:"forbiddenShiftTypeSuccessions"`
	Contracts                     []contractFile   `json:"contracts"`
	Nurses                        []nurseFile      `json:"nurses"`
}

type shiftTypeFile struct {
	ID                                    string `json:"id"`
	MinimumNumberOfConsecutiveAssignments int    `json:"minimumNumberOfConsecutiveAssignments"`
	MaximumNumberOfConsecutiveAssignments int    `json:"maximumNumberOfConsecutiveAssignments"`
}

type successionFile struct {
	PrecedingShiftType   string   `json:"precedingShiftType"`
	SucceedingShiftTypes []string `json:"succeedingShiftTypes"`
}

type contractFile struct {
	ID                                    string `json:"id"`
	MinimumNumberOfAssignments            int    `json:"minimumNumberOfAssignments"`
	MaximumNumberOfAssignments            int    `json:"maximumNumberOfAssignments"`
	MinimumNumberOfConsecutiveWorkingDays int    `json:"minimumNumberOfConsecutiveWorkingDays"`
	MaximumNumberOfConsecutiveWorkingDays int    `json:"maximumNumberOfConsecutiveWorkingDays"`
	MinimumNumberOfConsecutiveDaysOff     int    `json:"minimumNumberOfConsecutiveDaysOff"`
	MaximumNumberOfConsecutiveDaysOff     int    `json:"maximumNumberOfConsecutiveDaysOff"`
	MaximumNumberOfWorkingWeekends        int    `json:"maximumNumberOfWorkingWeekends"`
	CompleteWeekends                      int    `json:"completeWeekends"`
}

type nurseFile struct {
	ID       string   `json:"id"`
	Contract string   `json:"contract"`
	Skills   []string `json:"skills"`
}

// 历史文件结构
type historyFile struct {
	Week         int                `json:"week"`
	Scenario     string             `json:"scenario"`
	NurseHistory []nurseHistoryFile `json:"nurseHistory"`
}

type nurseHistoryFile struct {
	Nurse                          string `json:"nurse"`
	NumberOfAssignments            int    `json:"numberOfAssignments"`
	NumberOfWorkingWeekends        int    `json:"numberOfWorkingWeekends"`
	LastAssignedShiftType          string `json:"lastAssignedShiftType"`
	NumberOfConsecutiveAssignments int    `json:"numberOfConsecutiveAssignments"`
	NumberOfConsecutiveWorkingDays int    `json:"numberOfConsecutiveWorkingDays"`
	NumberOfConsecutiveDaysOff     int    `json:"numberOfConsecutiveDaysOff"`
}

// 周数据文件结构
type weekFile struct {
	Scenario         string            `json:"scenario"`
	Requirements     []requirementFile `json:"requirements"`
	ShiftOffRequests []shiftOffFile    `json:"shiftOffRequests"`
}

type minOptFile struct {
	Minimum int `json:"minimum"`
	Optimal int `json:"optimal"`
}

type requirementFile struct {
	ShiftType              string     `json:"shiftType"`
	Skill                  string     `json:"skill"`
	RequirementOnMonday    minOptFile `json:"requirementOnMonday"`
	RequirementOnTuesday   minOptFile `json:"requirementOnTuesday"`
	RequirementOnWednesday minOptFile `json:"requirementOnWednesday"`
	RequirementOnThursday  minOptFile `json:"requirementOnThursday"`
	RequirementOnFriday    minOptFile `json:"requirementOnFriday"`
	RequirementOnSaturday  minOptFile `json:"requirementOnSaturday"`
	RequirementOnSunday    minOptFile `json:"requirementOnSunday"`
}

func (r *requirementFile) onDay(weekday int) minOptFile {
	switch weekday {
	case model.WeekdayMon:
		return r.RequirementOnMonday
	case model.WeekdayTue:
		return r.RequirementOnTuesday
	case model.WeekdayWed:
		return r.RequirementOnWednesday
	case model.WeekdayThu:
		return r.RequirementOnThursday
	case model.WeekdayFri:
		return r.RequirementOnFriday
	case model.WeekdaySat:
		return r.RequirementOnSaturday
	default:
		return r.RequirementOnSunday
	}
}

type shiftOffFile struct {
	Nurse     string `json:"nurse"`
	ShiftType string `json:"shiftType"`
	Day       string `json:"day"`
}

// 解文件结构
type solutionFile struct {
	Scenario    string           `json:"scenario"`
	Week        int              `json:"week"`
	Assignments []assignmentFile `json:"assignments"`
}

type assignmentFile struct {
	Nurse     string `json:"nurse"`
	Day       string `json:"day"`
	ShiftType string `json:"shiftType"`
	Skill     string `json:"skill"`
}

// customFile 跨周传递内部状态的快照
type customFile struct {
	Scenario string        `json:"scenario"`
	History  model.History `json:"history"`
}

func readJSON(path string, v interface{}, code errors.Code) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.MalformedFile(code, path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return errors.MalformedFile(code, path, err)
	}
	return nil
}

// LoadScenario 读取场景文件，返回稠密编号的场景与名称表
func LoadScenario(path string) (*model.Scenario, *model.Names, error) {
	var file scenarioFile
	if err := readJSON(path, &file, errors.CodeMalformedScenario); err != nil {
		return nil, nil, err
	}
	if len(file.ShiftTypes) == 0 || len(file.Nurses) == 0 || len(file.Skills) == 0 {
		return nil, nil, errors.New(errors.CodeMalformedScenario,
			fmt.Sprintf("场景 '%s' 缺少班次、技能或护士定义", path))
	}

	names := model.NewNames()
	names.ScenarioName = file.ID

	sce := &model.Scenario{
		TotalWeekNum: file.NumberOfWeeks,
		SkillTypeNum: len(file.Skills),
	}

	names.SkillNames = append([]string(nil), file.Skills...)
	for i, name := range file.Skills {
		names.SkillMap[name] = model.SkillID(i)
	}

	sce.Shifts = make([]model.Shift, len(file.ShiftTypes))
	for i, st := range file.ShiftTypes {
		names.ShiftNames = append(names.ShiftNames, st.ID)
		names.ShiftMap[st.ID] = model.ShiftID(i)
		legal := make([]bool, len(file.ShiftTypes))
		for j := range legal {
			legal[j] = true
		}
		sce.Shifts[i] = model.Shift{
			MinConsecutiveShiftNum: st.MinimumNumberOfConsecutiveAssignments,
			MaxConsecutiveShiftNum: st.MaximumNumberOfConsecutiveAssignments,
			LegalNextShifts:        legal,
		}
	}
	for _, succ := range file.ForbiddenShiftTypeSuccessions {
		prec, ok := names.ShiftMap[succ.PrecedingShiftType]
		if !ok {
			return nil, nil, errors.New(errors.CodeMalformedScenario,
				fmt.Sprintf("未知班次 '%s'", succ.PrecedingShiftType))
		}
		for _, name := range succ.SucceedingShiftTypes {
			next, ok := names.ShiftMap[name]
			if !ok {
				return nil, nil, errors.New(errors.CodeMalformedScenario,
					fmt.Sprintf("未知班次 '%s'", name))
			}
			sce.Shifts[prec].LegalNextShifts[next] = false
		}
	}

	sce.Contracts = make([]model.Contract, len(file.Contracts))
	for i, ct := range file.Contracts {
		names.ContractNames = append(names.ContractNames, ct.ID)
		names.ContractMap[ct.ID] = model.ContractID(i)
		sce.Contracts[i] = model.Contract{
			MinShiftNum:             ct.MinimumNumberOfAssignments,
			MaxShiftNum:             ct.MaximumNumberOfAssignments,
			MinConsecutiveDayNum:    ct.MinimumNumberOfConsecutiveWorkingDays,
			MaxConsecutiveDayNum:    ct.MaximumNumberOfConsecutiveWorkingDays,
			MinConsecutiveDayoffNum: ct.MinimumNumberOfConsecutiveDaysOff,
			MaxConsecutiveDayoffNum: ct.MaximumNumberOfConsecutiveDaysOff,
			MaxWorkingWeekendNum:    ct.MaximumNumberOfWorkingWeekends,
			CompleteWeekend:         ct.CompleteWeekends != 0,
		}
	}

	sce.Nurses = make([]model.Nurse, len(file.Nurses))
	for i, nf := range file.Nurses {
		names.NurseNames = append(names.NurseNames, nf.ID)
		names.NurseMap[nf.ID] = model.NurseID(i)
		contract, ok := names.ContractMap[nf.Contract]
		if !ok {
			return nil, nil, errors.New(errors.CodeMalformedScenario,
				fmt.Sprintf("护士 '%s' 引用了未知合同 '%s'", nf.ID, nf.Contract))
		}
		skills := make([]model.SkillID, 0, len(nf.Skills))
		for _, name := range nf.Skills {
			skill, ok := names.SkillMap[name]
			if !ok {
				return nil, nil, errors.New(errors.CodeMalformedScenario,
					fmt.Sprintf("护士 '%s' 引用了未知技能 '%s'", nf.ID, name))
			}
			skills = append(skills, skill)
		}
		if len(skills) == 0 {
			return nil, nil, errors.New(errors.CodeMalformedScenario,
				fmt.Sprintf("护士 '%s' 没有任何技能", nf.ID))
		}
		sce.Nurses[i] = model.Nurse{Contract: contract, Skills: skills}
	}

	sce.Normalize()
	return sce, names, nil
}

// LoadHistory 读取历史文件
func LoadHistory(path string, names *model.Names, nurseNum int) (model.History, error) {
	var file historyFile
	if err := readJSON(path, &file, errors.CodeMalformedHistory); err != nil {
		return model.History{}, err
	}
	h := model.NewHistory(nurseNum)
	h.PastWeekCount = file.Week
	h.CurrentWeek = file.Week + 1
	for _, nh := range file.NurseHistory {
		nurse, ok := names.NurseMap[nh.Nurse]
		if !ok {
			return model.History{}, errors.New(errors.CodeMalformedHistory,
				fmt.Sprintf("历史中出现未知护士 '%s'", nh.Nurse))
		}
		shift, ok := names.ShiftMap[nh.LastAssignedShiftType]
		if !ok {
			return model.History{}, errors.New(errors.CodeMalformedHistory,
				fmt.Sprintf("历史中出现未知班次 '%s'", nh.LastAssignedShiftType))
		}
		h.TotalAssignNums[nurse] = nh.NumberOfAssignments
		h.TotalWorkingWeekendNums[nurse] = nh.NumberOfWorkingWeekends
		h.LastShifts[nurse] = shift
		h.ConsecutiveShiftNums[nurse] = nh.NumberOfConsecutiveAssignments
		h.ConsecutiveDayNums[nurse] = nh.NumberOfConsecutiveWorkingDays
		h.ConsecutiveDayoffNums[nurse] = nh.NumberOfConsecutiveDaysOff
	}
	return h, nil
}

// LoadWeekData 读取周需求与偏好文件
func LoadWeekData(path string, sce *model.Scenario, names *model.Names) (model.WeekData, error) {
	var file weekFile
	if err := readJSON(path, &file, errors.CodeMalformedWeekData); err != nil {
		return model.WeekData{}, err
	}
	wd := model.NewWeekData(sce.ShiftTypeNum, sce.SkillTypeNum, sce.NurseNum)

	for _, req := range file.Requirements {
		shift, ok := names.ShiftMap[req.ShiftType]
		if !ok || !model.IsWorkingShift(shift) {
			return model.WeekData{}, errors.New(errors.CodeMalformedWeekData,
				fmt.Sprintf("需求中出现未知班次 '%s'", req.ShiftType))
		}
		skill, ok := names.SkillMap[req.Skill]
		if !ok {
			return model.WeekData{}, errors.New(errors.CodeMalformedWeekData,
				fmt.Sprintf("需求中出现未知技能 '%s'", req.Skill))
		}
		for weekday := model.WeekdayMon; weekday < model.WeekdaySize; weekday++ {
			mo := req.onDay(weekday)
			wd.MinNurseNums[weekday][shift][skill] = mo.Minimum
			wd.OptNurseNums[weekday][shift][skill] = mo.Optimal
		}
	}

	for _, off := range file.ShiftOffRequests {
		nurse, ok := names.NurseMap[off.Nurse]
		if !ok {
			return model.WeekData{}, errors.New(errors.CodeMalformedWeekData,
				fmt.Sprintf("休班申请中出现未知护士 '%s'", off.Nurse))
		}
		weekday := model.WeekdayByName(off.Day)
		if weekday < 0 {
			return model.WeekData{}, errors.New(errors.CodeMalformedWeekData,
				fmt.Sprintf("休班申请中出现未知日期 '%s'", off.Day))
		}
		shift, ok := names.ShiftMap[off.ShiftType]
		if !ok {
			return model.WeekData{}, errors.New(errors.CodeMalformedWeekData,
				fmt.Sprintf("休班申请中出现未知班次 '%s'", off.ShiftType))
		}
		if shift == model.ShiftAny {
			// 通配申请展开到全部具体班次
			for sh := 0; sh < sce.ShiftTypeNum; sh++ {
				wd.ShiftOffs[weekday][sh][nurse] = true
			}
		} else if model.IsWorkingShift(shift) {
			wd.ShiftOffs[weekday][shift][nurse] = true
		}
	}

	return wd, nil
}

// LoadCustomInput 读取上周留下的内部状态快照，覆盖历史文件
func LoadCustomInput(path string) (model.History, error) {
	var file customFile
	if err := readJSON(path, &file, errors.CodeMalformedHistory); err != nil {
		return model.History{}, err
	}
	return file.History, nil
}

// WriteCustomOutput 写出传给下一周的内部状态快照
func WriteCustomOutput(path, scenario string, history model.History) error {
	data, err := json.MarshalIndent(customFile{Scenario: scenario, History: history}, "", "  ")
	if err != nil {
		return errors.Wrap(err, errors.CodeInternal, "序列化状态快照失败")
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrap(err, errors.CodeInternal, fmt.Sprintf("写入 '%s' 失败", path))
	}
	return nil
}

// WriteSolution 写出周解文件：每名护士每个工作日的 (班次,技能)
func WriteSolution(path string, p *model.Problem, assign model.Assign) error {
	file := solutionFile{
		Scenario: p.Names.ScenarioName,
		Week:     p.WeekCount,
	}
	for nurse := model.NurseID(0); int(nurse) < p.Scenario.NurseNum; nurse++ {
		for weekday := model.WeekdayMon; weekday < model.WeekdaySize; weekday++ {
			if !assign.IsWorking(nurse, weekday) {
				continue
			}
			cell := assign[nurse][weekday]
			file.Assignments = append(file.Assignments, assignmentFile{
				Nurse:     p.Names.NurseNames[nurse],
				Day:       model.WeekdayNames[weekday],
				ShiftType: p.Names.ShiftName(cell.Shift),
				Skill:     p.Names.SkillNames[cell.Skill],
			})
		}
	}
	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return errors.Wrap(err, errors.CodeInternal, "序列化解文件失败")
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrap(err, errors.CodeInternal, fmt.Sprintf("写入 '%s' 失败", path))
	}
	return nil
}

// LoadProblem 汇总读取一次求解的全部输入。
// cusIn 非空时其中的历史快照优先于历史文件。
func LoadProblem(scePath, hisPath, weekPath, cusIn string) (*model.Problem, error) {
	sce, names, err := LoadScenario(scePath)
	if err != nil {
		return nil, err
	}
	var history model.History
	if cusIn != "" {
		history, err = LoadCustomInput(cusIn)
	} else {
		history, err = LoadHistory(hisPath, names, sce.NurseNum)
	}
	if err != nil {
		return nil, err
	}
	weekData, err := LoadWeekData(weekPath, sce, names)
	if err != nil {
		return nil, err
	}
	return &model.Problem{
		WeekCount: history.PastWeekCount,
		Scenario:  *sce,
		WeekData:  weekData,
		History:   history,
		Names:     names,
	}, nil
}
