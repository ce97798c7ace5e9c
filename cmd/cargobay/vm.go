package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/cargobay/cargobay/internal/config"
	"github.com/cargobay/cargobay/internal/domain"
	"github.com/cargobay/cargobay/internal/logger"
	"github.com/cargobay/cargobay/internal/store"
	"github.com/cargobay/cargobay/internal/vm"
)

func newVMManager(cfg *config.Config, log zerolog.Logger) (*vm.Manager, *store.Store, error) {
	st, err := store.Open(cfg.Store.Path)
	if err != nil {
		return nil, nil, err
	}
	return vm.NewManager(st, log), st, nil
}

var vmCmd = &cobra.Command{
	Use:   "vm",
	Short: "Manage virtual machines",
}

var vmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List VMs",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadedConfig(cmd)
		manager, st, err := newVMManager(cfg, logger.SetupLogger(&cfg.Logging))
		if err != nil {
			return err
		}
		defer st.Close()

		vms, err := manager.List()
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tID\tSTATE\tCPUS\tMEMORY\tDISK")
		for _, v := range vms {
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%dMB\t%dGB\n", v.Name, v.Id, v.State, v.CPUs, v.MemoryMB, v.DiskGB)
		}
		return w.Flush()
	},
}

var (
	vmCPUs    uint32
	vmMemory  uint64
	vmDisk    uint64
	vmRosetta bool
)

var vmCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Register a new VM",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadedConfig(cmd)
		manager, st, err := newVMManager(cfg, logger.SetupLogger(&cfg.Logging))
		if err != nil {
			return err
		}
		defer st.Close()

		info, err := manager.Create(domain.VMConfig{
			Name:     args[0],
			CPUs:     vmCPUs,
			MemoryMB: vmMemory,
			DiskGB:   vmDisk,
			Rosetta:  vmRosetta,
		})
		if err != nil {
			return err
		}
		fmt.Println(info.Id)
		return nil
	},
}

var vmStartCmd = &cobra.Command{
	Use:   "start <id>",
	Short: "Start a VM",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadedConfig(cmd)
		manager, st, err := newVMManager(cfg, logger.SetupLogger(&cfg.Logging))
		if err != nil {
			return err
		}
		defer st.Close()
		return manager.Start(args[0])
	},
}

var vmStopCmd = &cobra.Command{
	Use:   "stop <id>",
	Short: "Stop a running VM",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadedConfig(cmd)
		manager, st, err := newVMManager(cfg, logger.SetupLogger(&cfg.Logging))
		if err != nil {
			return err
		}
		defer st.Close()
		return manager.Stop(args[0])
	},
}

var vmRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete a stopped VM",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadedConfig(cmd)
		manager, st, err := newVMManager(cfg, logger.SetupLogger(&cfg.Logging))
		if err != nil {
			return err
		}
		defer st.Close()
		return manager.Delete(args[0])
	},
}

var vmMountCmd = &cobra.Command{
	Use:   "mount",
	Short: "Manage virtiofs shares of a VM",
}

var vmMountListCmd = &cobra.Command{
	Use:   "list <id>",
	Short: "List the shares of a VM",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadedConfig(cmd)
		manager, st, err := newVMManager(cfg, logger.SetupLogger(&cfg.Logging))
		if err != nil {
			return err
		}
		defer st.Close()

		mounts, err := manager.ListMounts(args[0])
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
		fmt.Fprintln(w, "TAG\tHOST\tGUEST\tRO")
		for _, m := range mounts {
			fmt.Fprintf(w, "%s\t%s\t%s\t%t\n", m.Tag, m.HostPath, m.GuestPath, m.ReadOnly)
		}
		return w.Flush()
	},
}

var (
	mountHostPath  string
	mountGuestPath string
	mountReadOnly  bool
)

var vmMountAddCmd = &cobra.Command{
	Use:   "add <id> <tag>",
	Short: "Share a host directory with a VM",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadedConfig(cmd)
		manager, st, err := newVMManager(cfg, logger.SetupLogger(&cfg.Logging))
		if err != nil {
			return err
		}
		defer st.Close()

		return manager.AddMount(args[0], domain.SharedDir{
			Tag:       args[1],
			HostPath:  mountHostPath,
			GuestPath: mountGuestPath,
			ReadOnly:  mountReadOnly,
		})
	},
}

var vmMountRmCmd = &cobra.Command{
	Use:   "rm <id> <tag>",
	Short: "Remove a share from a VM",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadedConfig(cmd)
		manager, st, err := newVMManager(cfg, logger.SetupLogger(&cfg.Logging))
		if err != nil {
			return err
		}
		defer st.Close()
		return manager.RemoveMount(args[0], args[1])
	},
}

var (
	vmLoginUser string
	vmLoginHost string
	vmLoginPort uint16
)

var vmLoginCmd = &cobra.Command{
	Use:   "login <name>",
	Short: "Print the ssh command that connects to a VM",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		command, err := vm.LoginCommand(args[0], vmLoginUser, vmLoginHost, vmLoginPort)
		if err != nil {
			return err
		}
		fmt.Println(command)
		return nil
	},
}

func init() {
	vmCreateCmd.Flags().Uint32Var(&vmCPUs, "cpus", 2, "virtual CPU count")
	vmCreateCmd.Flags().Uint64Var(&vmMemory, "memory", 2048, "memory in MB")
	vmCreateCmd.Flags().Uint64Var(&vmDisk, "disk", 20, "disk size in GB")
	vmCreateCmd.Flags().BoolVar(&vmRosetta, "rosetta", false, "enable Rosetta translation for x86 binaries")

	vmMountAddCmd.Flags().StringVar(&mountHostPath, "host", "", "host directory to share")
	vmMountAddCmd.Flags().StringVar(&mountGuestPath, "guest", "", "mount point inside the VM")
	vmMountAddCmd.Flags().BoolVar(&mountReadOnly, "ro", false, "share read-only")
	vmMountAddCmd.MarkFlagRequired("host")
	vmMountAddCmd.MarkFlagRequired("guest")

	vmLoginCmd.Flags().StringVar(&vmLoginUser, "user", "root", "ssh user")
	vmLoginCmd.Flags().StringVar(&vmLoginHost, "host", "localhost", "ssh host")
	vmLoginCmd.Flags().Uint16Var(&vmLoginPort, "port", 22, "ssh port")

	vmMountCmd.AddCommand(vmMountListCmd, vmMountAddCmd, vmMountRmCmd)
	vmCmd.AddCommand(vmListCmd, vmCreateCmd, vmStartCmd, vmStopCmd, vmRmCmd, vmMountCmd, vmLoginCmd)
	rootCmd.AddCommand(vmCmd)
}
