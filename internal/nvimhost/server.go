package nvimhost

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/neovim/go-client/nvim"
	"github.com/rs/zerolog"

	"github.com/go-ports/bufmark/internal/config"
	"github.com/go-ports/bufmark/internal/plugin"
	"github.com/go-ports/bufmark/internal/service"
)

// RPC method names called from the Neovim side.
const (
	methodSet       = "bufmark_set"
	methodDelete    = "bufmark_delete"
	methodGoto      = "bufmark_goto"
	methodDeleteAll = "bufmark_delete_all"
	methodList      = "bufmark_list"
	methodMarks     = "bufmark_marks"
	methodStatus    = "bufmark_status"
	methodLeave     = "bufmark_leave"
	methodEnter     = "bufmark_enter"
)

// Server runs the RPC session for one Neovim instance.
type Server struct {
	v    *nvim.Nvim
	svc  *service.Service
	host *Host
	ctrl *plugin.Controller
	log  zerolog.Logger
}

// Serve talks msgpack-RPC over stdin/stdout until Neovim closes the channel
// or ctx is cancelled.
func Serve(ctx context.Context, svc *service.Service) error {
	return ServeConn(ctx, svc, os.Stdin, os.Stdout, os.Stdout)
}

// ServeConn is Serve over an arbitrary connection.
func ServeConn(ctx context.Context, svc *service.Service, r io.Reader, w io.Writer, c io.Closer) error {
	log := svc.Log.Component("nvim")
	v, err := nvim.New(r, w, c, func(format string, args ...any) {
		log.Debug().Msgf(format, args...)
	})
	if err != nil {
		return fmt.Errorf("nvimhost.Serve: connect: %w", err)
	}

	host := NewHost(v, svc.Log.Logger)
	s := &Server{
		v:    v,
		svc:  svc,
		host: host,
		ctrl: plugin.New(svc.Store, host, svc.StatusStyle(), svc.Log.Logger),
		log:  log,
	}
	if err := s.registerHandlers(); err != nil {
		_ = v.Close()
		return err
	}

	errc := make(chan error, 1)
	go func() { errc <- v.Serve() }()

	if err := s.install(); err != nil {
		_ = v.Close()
		<-errc
		return err
	}
	svc.Store.OnChange(s.refreshStatus)
	if err := svc.StartWatch(); err != nil {
		log.Warn().Err(err).Msg("watch disabled")
	}
	s.refreshStatus()
	log.Info().Str("cwd", svc.Cwd).Str("file", svc.Store.Path()).Msg("serving")

	select {
	case <-ctx.Done():
		_ = v.Close()
		<-errc
		return nil
	case err := <-errc:
		return err
	}
}

func (s *Server) registerHandlers() error {
	handlers := map[string]any{
		methodSet:       s.ctrl.Set,
		methodDelete:    s.ctrl.Delete,
		methodGoto:      s.ctrl.Goto,
		methodDeleteAll: s.ctrl.DeleteAll,
		methodList: func() error {
			s.ctrl.ShowList()
			return nil
		},
		methodMarks: func() (map[string]string, error) {
			out := make(map[string]string)
			for _, m := range s.ctrl.List() {
				out[m.Char] = m.Path
			}
			return out, nil
		},
		methodStatus: s.ctrl.Status,
		methodLeave: func(buf, line, col int) error {
			if err := s.host.SaveCursor(buf, line, col); err != nil {
				s.log.Debug().Err(err).Int("buf", buf).Msg("save cursor")
			}
			return nil
		},
		methodEnter: func() error {
			s.refreshStatus()
			return nil
		},
	}
	for name, fn := range handlers {
		if err := s.v.RegisterHandler(name, fn); err != nil {
			return fmt.Errorf("nvimhost: register %s: %w", name, err)
		}
	}
	return nil
}

// install defines commands, autocmds, highlights and keymaps on the Neovim
// side.
func (s *Server) install() error {
	for _, cmd := range setupCommands(s.v.ChannelID(), s.svc.StatusStyle().Current, s.svc.StatusStyle().Other, s.svc.Config.Keymaps) {
		if err := s.v.Command(cmd); err != nil {
			return fmt.Errorf("nvimhost: %q: %w", cmd, err)
		}
	}
	return nil
}

// refreshStatus re-renders the status line after a change.
func (s *Server) refreshStatus() {
	text, err := s.ctrl.Status()
	if err != nil {
		s.log.Debug().Err(err).Msg("render status")
		return
	}
	if err := s.host.PublishStatus(text); err != nil {
		s.log.Debug().Err(err).Msg("publish status")
	}
}

// setupCommands returns the Ex commands that wire Neovim to the channel.
func setupCommands(channel int, currentGroup, otherGroup string, km config.KeymapConfig) []string {
	req := func(method, args string) string {
		if args == "" {
			return fmt.Sprintf("call rpcrequest(%d, '%s')", channel, method)
		}
		return fmt.Sprintf("call rpcrequest(%d, '%s', %s)", channel, method, args)
	}

	cmds := []string{
		"command! -nargs=1 BufMarkSet " + req(methodSet, "<q-args>"),
		"command! -nargs=1 BufMarkDelete " + req(methodDelete, "<q-args>"),
		"command! -nargs=1 BufMarkGoto " + req(methodGoto, "<q-args>"),
		"command! -nargs=0 BufMarkList " + req(methodList, ""),
		"command! -nargs=0 BufMarkDeleteAll " + req(methodDeleteAll, ""),
		"augroup bufmark",
		"autocmd!",
		fmt.Sprintf("autocmd BufLeave * call rpcnotify(%d, '%s', expand('<abuf>') + 0, line('.'), col('.'))", channel, methodLeave),
		fmt.Sprintf("autocmd BufEnter * call rpcnotify(%d, '%s')", channel, methodEnter),
		"augroup END",
	}
	if currentGroup != "" {
		cmds = append(cmds, "highlight default link "+currentGroup+" Search")
	}
	if otherGroup != "" {
		cmds = append(cmds, "highlight default link "+otherGroup+" StatusLine")
	}

	keymaps := []struct{ lhs, method string }{
		{km.Set, methodSet},
		{km.Goto, methodGoto},
		{km.Delete, methodDelete},
	}
	for _, k := range keymaps {
		if k.lhs == "" {
			continue
		}
		cmds = append(cmds, fmt.Sprintf("nnoremap <silent> %s <Cmd>%s<CR>", k.lhs, req(k.method, "nr2char(getchar())")))
	}
	return cmds
}
