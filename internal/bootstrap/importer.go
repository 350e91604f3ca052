package bootstrap

import (
	"context"
	"fmt"
	"time"
)

// timeLayout is the fixed timestamp pattern used by every fixture file.
// A row that fails to parse is treated as a structurally broken file and
// aborts the run, unlike a dangling reference which only skips the row.
const timeLayout = "2006-01-02 15:04:05"

const messageTypeText = "TEXT"

// summary aggregates per-file row outcomes so the loader can report
// imported vs skipped counts deterministically.
type summary struct {
	imported int
	skipped  int
}

// needFields rejects rows that are too short for the file's fixed layout.
// Like a broken timestamp this is structural damage, so it aborts the run.
func needFields(file string, row []string, n int) error {
	if len(row) < n {
		return fmt.Errorf("%s: expected %d columns, got %d", file, n, len(row))
	}
	return nil
}

func parseTime(file, field string) (time.Time, error) {
	t, err := time.Parse(timeLayout, field)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s: bad timestamp %q: %w", file, field, err)
	}
	return t, nil
}

// importRoles persists role rows and returns the file-id remap for them.
// Columns: 0:id, 1:name, 2:description.
func (l *Loader) importRoles(ctx context.Context, st store, rows [][]string) (remap, error) {
	roles := remap{}
	for _, row := range rows {
		if err := needFields(fileRoles, row, 3); err != nil {
			return nil, err
		}
		fileID, err := parseFileID(fileRoles, row[0])
		if err != nil {
			return nil, err
		}
		id, err := st.InsertRole(ctx, roleRecord{Name: row[1], Description: row[2]})
		if err != nil {
			return nil, err
		}
		roles.put(fileID, id)
	}
	return roles, nil
}

// importUsers persists user rows. Password hashes come through verbatim;
// the fixture already stores hashes, never plaintext.
// Columns: 0:id, 1:login, 2:nickname, 3:password_hash, 4:email, 5:created_at, 6:last_login.
func (l *Loader) importUsers(ctx context.Context, st store, rows [][]string) (remap, error) {
	users := remap{}
	for _, row := range rows {
		if err := needFields(fileUsers, row, 7); err != nil {
			return nil, err
		}
		fileID, err := parseFileID(fileUsers, row[0])
		if err != nil {
			return nil, err
		}
		createdAt, err := parseTime(fileUsers, row[5])
		if err != nil {
			return nil, err
		}
		lastLogin, err := parseTime(fileUsers, row[6])
		if err != nil {
			return nil, err
		}
		id, err := st.InsertUser(ctx, userRecord{
			Login:        row[1],
			Nickname:     row[2],
			PasswordHash: row[3],
			Email:        row[4],
			CreatedAt:    createdAt,
			LastLogin:    lastLogin,
		})
		if err != nil {
			return nil, err
		}
		users.put(fileID, id)
	}
	return users, nil
}

// importChannels persists channel rows.
// Columns: 0:id, 1:name, 2:password_hash, 3:description, 4:created_at.
func (l *Loader) importChannels(ctx context.Context, st store, rows [][]string) (remap, error) {
	channels := remap{}
	for _, row := range rows {
		if err := needFields(fileChannels, row, 5); err != nil {
			return nil, err
		}
		fileID, err := parseFileID(fileChannels, row[0])
		if err != nil {
			return nil, err
		}
		createdAt, err := parseTime(fileChannels, row[4])
		if err != nil {
			return nil, err
		}
		id, err := st.InsertChannel(ctx, channelRecord{
			Name:         row[1],
			PasswordHash: row[2],
			Description:  row[3],
			CreatedAt:    createdAt,
		})
		if err != nil {
			return nil, err
		}
		channels.put(fileID, id)
	}
	return channels, nil
}

// importUserRoles links users to roles. Rows referencing an unknown user or
// role are skipped with a warning; the source data contains such rows and
// they must not abort the run.
// Columns: 0:id, 1:user_id, 2:role_id.
func (l *Loader) importUserRoles(ctx context.Context, st store, rows [][]string, users, roles remap) (summary, error) {
	var sum summary
	for _, row := range rows {
		if err := needFields(fileUserRoles, row, 3); err != nil {
			return sum, err
		}
		userFileID, err := parseFileID(fileUserRoles, row[1])
		if err != nil {
			return sum, err
		}
		roleFileID, err := parseFileID(fileUserRoles, row[2])
		if err != nil {
			return sum, err
		}
		userID, okU := users.get(userFileID)
		roleID, okR := roles.get(roleFileID)
		if !okU || !okR {
			l.logger.Warnf("skipped user-role link %s: missing user or role", row[0])
			sum.skipped++
			continue
		}
		if err := st.AttachRole(ctx, userID, roleID); err != nil {
			return sum, err
		}
		sum.imported++
	}
	return sum, nil
}

// importSettings persists channel settings. Duplicate keys within a channel
// are allowed; the schema enforces no uniqueness there.
// Columns: 0:id, 1:key, 2:value, 3:channel_id.
func (l *Loader) importSettings(ctx context.Context, st store, rows [][]string, channels remap) (summary, error) {
	var sum summary
	for _, row := range rows {
		if err := needFields(fileSettings, row, 4); err != nil {
			return sum, err
		}
		channelFileID, err := parseFileID(fileSettings, row[3])
		if err != nil {
			return sum, err
		}
		channelID, ok := channels.get(channelFileID)
		if !ok {
			l.logger.Warnf("skipped channel setting %s: missing channel", row[0])
			sum.skipped++
			continue
		}
		if err := st.InsertSetting(ctx, settingRecord{ChannelID: channelID, Key: row[1], Value: row[2]}); err != nil {
			return sum, err
		}
		sum.imported++
	}
	return sum, nil
}

// importAccess persists channel memberships.
// Columns: 0:id, 1:joined_at, 2:user_id, 3:channel_id.
func (l *Loader) importAccess(ctx context.Context, st store, rows [][]string, users, channels remap) (summary, error) {
	var sum summary
	for _, row := range rows {
		if err := needFields(fileAccess, row, 4); err != nil {
			return sum, err
		}
		userFileID, err := parseFileID(fileAccess, row[2])
		if err != nil {
			return sum, err
		}
		channelFileID, err := parseFileID(fileAccess, row[3])
		if err != nil {
			return sum, err
		}
		userID, okU := users.get(userFileID)
		channelID, okC := channels.get(channelFileID)
		if !okU || !okC {
			l.logger.Warnf("skipped channel access %s: missing user or channel", row[0])
			sum.skipped++
			continue
		}
		joinedAt, err := parseTime(fileAccess, row[1])
		if err != nil {
			return sum, err
		}
		if err := st.InsertAccess(ctx, accessRecord{UserID: userID, ChannelID: channelID, JoinedAt: joinedAt}); err != nil {
			return sum, err
		}
		sum.imported++
	}
	return sum, nil
}

// importMessages persists messages. A message whose sender or channel never
// made it into the database is skipped and logged with its own file id.
// Columns: 0:id, 1:sender_id, 2:channel_id, 3:content, 4:created_at.
func (l *Loader) importMessages(ctx context.Context, st store, rows [][]string, users, channels remap) (summary, error) {
	var sum summary
	for _, row := range rows {
		if err := needFields(fileMessages, row, 5); err != nil {
			return sum, err
		}
		senderFileID, err := parseFileID(fileMessages, row[1])
		if err != nil {
			return sum, err
		}
		channelFileID, err := parseFileID(fileMessages, row[2])
		if err != nil {
			return sum, err
		}
		senderID, okS := users.get(senderFileID)
		channelID, okC := channels.get(channelFileID)
		if !okS || !okC {
			l.logger.Warnf("skipped message %s: missing sender or channel", row[0])
			sum.skipped++
			continue
		}
		timestamp, err := parseTime(fileMessages, row[4])
		if err != nil {
			return sum, err
		}
		if err := st.InsertMessage(ctx, messageRecord{
			SenderID:  senderID,
			ChannelID: channelID,
			Content:   row[3],
			Type:      messageTypeText,
			Timestamp: timestamp,
		}); err != nil {
			return sum, err
		}
		sum.imported++
	}
	return sum, nil
}
